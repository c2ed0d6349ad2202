package account

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidEmail  = errors.New("email is required")
	ErrInvalidName   = errors.New("name is required")
	ErrAlreadyVendor = errors.New("user is already a vendor")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrUserDeactivated = errors.New("user account is deactivated")
)

// User represents a marketplace account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
