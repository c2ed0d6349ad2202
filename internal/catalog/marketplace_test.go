package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketplaces_ClosedSet(t *testing.T) {
	venues := Marketplaces()
	require.Len(t, venues, 8)

	seen := make(map[Marketplace]bool)
	for _, v := range venues {
		assert.False(t, seen[v], "duplicate venue %s", v)
		seen[v] = true
	}
}

func TestParseMarketplace(t *testing.T) {
	m, err := ParseMarketplace("SRISTI: Sristi Campus")
	require.NoError(t, err)
	assert.Equal(t, VenueSristiCampus, m)

	_, err = ParseMarketplace("sristi: sristi campus")
	assert.ErrorIs(t, err, ErrUnknownMarketplace, "matching is exact, not case-insensitive")

	_, err = ParseMarketplace("")
	assert.ErrorIs(t, err, ErrUnknownMarketplace)
}

func TestMarketplace_Valid(t *testing.T) {
	assert.True(t, VenueGayatriTemple.Valid())
	assert.False(t, Marketplace("City Mall").Valid())
}
