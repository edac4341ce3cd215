// Package auth_repo provides the PostgreSQL user store.
package auth_repo

import (
	"context"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/domain/auth"
	"bizerp/internal/infrastructure/storage/postgres"
)

const userColumns = `id, name, email, phone, password_hash, pin_hash, role, is_active,
	last_login_at, failed_login_attempts, locked_until, created_at, updated_at`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	q postgres.Querier
}

var _ auth.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(q postgres.Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (
			id, name, email, phone, password_hash, pin_hash, role, is_active,
			failed_login_attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.PinHash,
		user.Role, user.IsActive, user.FailedLoginAttempts, user.CreatedAt, user.UpdatedAt,
	)
	return postgres.MapError(err, "user", "insert user")
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getOne(ctx, "id = $1", userID)
}

// GetByEmail retrieves user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(strings.TrimSpace(email)))
}

// GetByPhone retrieves user by phone.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*auth.User, error) {
	return r.getOne(ctx, "phone = $1", strings.TrimSpace(phone))
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*auth.User, error) {
	var user auth.User
	query := "SELECT " + userColumns + " FROM users WHERE " + where + " LIMIT 1"
	if err := pgxscan.Get(ctx, r.q, &user, query, arg); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", arg)
		}
		return nil, postgres.MapError(err, "user", "get user")
	}
	return &user, nil
}

// Exists reports whether a user with email exists.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "user", "check user email")
	}
	return exists, nil
}

// UpdateLoginState writes the login bookkeeping columns.
func (r *UserRepo) UpdateLoginState(ctx context.Context, user *auth.User) error {
	query := `
		UPDATE users SET
			last_login_at = $2,
			failed_login_attempts = $3,
			locked_until = $4,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, user.ID, user.LastLoginAt, user.FailedLoginAttempts, user.LockedUntil)
	if err != nil {
		return postgres.MapError(err, "user", "update login state")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}
	return nil
}
