package auth

import (
	"context"

	"bizerp/internal/core/id"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)

	// Exists reports whether a user with email exists.
	Exists(ctx context.Context, email string) (bool, error)

	// UpdateLoginState writes the login bookkeeping columns.
	UpdateLoginState(ctx context.Context, user *User) error
}
