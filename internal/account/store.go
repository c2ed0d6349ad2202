package account

import "context"

// Store is the persistence contract for accounts. Implementations return
// ErrUserNotFound when the id or email does not resolve.
type Store interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, u *User) error
}
