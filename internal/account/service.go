package account

import (
	"context"
	"time"

	"github.com/example/vendor-market/internal/auth"
	"github.com/google/uuid"
)

// Service handles account operations.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a new account with the "user" role.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	return s.RegisterWithRole(ctx, email, password, name, RoleUser)
}

// RegisterWithRole creates a new account with an explicit role (used for
// seeding admin accounts).
func (s *Service) RegisterWithRole(ctx context.Context, email, password, name string, role Role) (*User, error) {
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if err != ErrUserNotFound {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email/password and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err == ErrUserNotFound {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserDeactivated
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.Get(ctx, id)
}

// List returns all accounts (admin view).
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

// Vendors returns all accounts with the vendor role.
func (s *Service) Vendors(ctx context.Context) ([]*User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	vendors := make([]*User, 0, len(users))
	for _, u := range users {
		if u.Role == RoleVendor {
			vendors = append(vendors, u)
		}
	}
	return vendors, nil
}

// RequestVendorStatus moves a user to the pending role. Vendors and admins
// are rejected; a pending request is accepted again without effect.
func (s *Service) RequestVendorStatus(ctx context.Context, userID string) (*User, error) {
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == RoleVendor || u.Role == RoleAdmin {
		return nil, ErrAlreadyVendor
	}
	u.Role = RolePending
	u.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateRole sets an account's role (admin operation).
func (s *Service) UpdateRole(ctx context.Context, userID string, role Role) (*User, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
