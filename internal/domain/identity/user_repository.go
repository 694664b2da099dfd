package identity

import "context"

// UserRepository stores accounts keyed by email. FindByEmail returns
// shared.ErrNotFound for unknown addresses and Create returns
// ErrEmailAlreadyExists when the address is taken.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
