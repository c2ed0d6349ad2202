package catalog

import "errors"

var ErrUnknownMarketplace = errors.New("unknown marketplace venue")

// Marketplace is the physical venue a listing may be sold at. Both products
// and orders carry one; the set is closed.
type Marketplace string

const (
	VenueAmbedkarUniversity Marketplace = "Dr. Babasaheb Ambedkar Open University Campus"
	VenueBhagwatVidyapeeth  Marketplace = "Shri Bhagwat Vidyapeeth Temple"
	VenueAtmaVikasa         Marketplace = "Atma vikasa parisara"
	VenueNavjeevanTrust     Marketplace = "Navjeevan Trust Campus"
	VenueGayatriTemple      Marketplace = "Gayatri Temple Trust Campus"
	VenueSristiCampus       Marketplace = "SRISTI: Sristi Campus"
	VenueVallabhVidyanagar  Marketplace = "Vallabh Vidyanagar, Anand"
	VenueSPULibrary         Marketplace = "Sardar Vallabhbhai Patel University (SPU) Bhaikaka Library Campus"
)

// Marketplaces lists every valid venue, in display order.
func Marketplaces() []Marketplace {
	return []Marketplace{
		VenueAmbedkarUniversity,
		VenueBhagwatVidyapeeth,
		VenueAtmaVikasa,
		VenueNavjeevanTrust,
		VenueGayatriTemple,
		VenueSristiCampus,
		VenueVallabhVidyanagar,
		VenueSPULibrary,
	}
}

// ParseMarketplace validates a venue name coming from clients.
func ParseMarketplace(s string) (Marketplace, error) {
	for _, m := range Marketplaces() {
		if Marketplace(s) == m {
			return m, nil
		}
	}
	return "", ErrUnknownMarketplace
}

func (m Marketplace) Valid() bool {
	_, err := ParseMarketplace(string(m))
	return err == nil
}

func (m Marketplace) String() string { return string(m) }
