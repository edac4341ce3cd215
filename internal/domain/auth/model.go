// Package auth provides authentication: password and PIN login, registration
// and token verification.
package auth

import (
	"context"
	"time"

	"bizerp/internal/core/apperror"
	appctx "bizerp/internal/core/context"
	"bizerp/internal/core/id"
)

// Roles assignable to users.
var Roles = []string{appctx.RoleAdmin, appctx.RoleManager, appctx.RoleStaff, appctx.RoleTechnician}

// User represents a system user.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	Email               string     `db:"email" json:"email"`
	Phone               *string    `db:"phone" json:"phone"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	PinHash             *string    `db:"pin_hash" json:"-"`
	Role                string     `db:"role" json:"role"`
	IsActive            bool       `db:"is_active" json:"is_active"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new active user.
func NewUser(name, email, passwordHash, role string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	for _, r := range Roles {
		if u.Role == r {
			return nil
		}
	}
	return apperror.NewValidation("unknown role").WithDetail("field", "role")
}

// IsLocked returns true if account is locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if user can log in.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked").
			WithDetail("locked_until", u.LockedUntil)
	}
	return nil
}

// RecordFailedLogin increments failed attempts and locks the account when
// maxAttempts is reached.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets failed attempts and stamps the login time.
func (u *User) RecordSuccessfulLogin() {
	now := time.Now().UTC()
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
}

// UserContext converts the user into the request context value.
func (u *User) UserContext() *appctx.UserContext {
	return &appctx.UserContext{
		UserID: u.ID.String(),
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}

// Credentials for password login.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TechnicianCredentials for PIN login.
type TechnicianCredentials struct {
	Phone string `json:"phone" binding:"required"`
	Pin   string `json:"pin" binding:"required,pin"`
}

// RegisterRequest for user registration.
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Phone    *string `json:"phone"`
	Pin      *string `json:"pin" binding:"omitempty,pin"`
	Role     string  `json:"role"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"`
	User      *User     `json:"user"`
}
