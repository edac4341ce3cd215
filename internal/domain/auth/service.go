package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bizerp/internal/core/apperror"
	appctx "bizerp/internal/core/context"
	"bizerp/internal/core/id"
	"bizerp/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
	BcryptCost        int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// Service provides authentication logic.
type Service struct {
	users      UserRepository
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(users UserRepository, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		users:      users,
		jwtService: jwtService,
		config:     config,
	}
}

// Register registers a new user. Role defaults to staff.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "email", email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = appctx.RoleStaff
	}
	user := NewUser(strings.TrimSpace(req.Name), email, string(passwordHash), role)
	user.Phone = req.Phone
	if req.Pin != nil && *req.Pin != "" {
		pinHash, err := bcrypt.GenerateFromPassword([]byte(*req.Pin), s.config.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash pin: %w", err)
		}
		h := string(pinHash)
		user.PinHash = &h
	}
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role)

	return user, nil
}

// SignUp registers a user through the public endpoint. The requested role
// is ignored: self-registered users are staff. Other roles are granted by
// an admin or by the CLI through Register.
func (s *Service) SignUp(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Role = appctx.RoleStaff
	return s.Register(ctx, req)
}

// Login authenticates a user by email and password.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.recordFailure(ctx, user)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	return s.startSession(ctx, user)
}

// TechnicianLogin authenticates a user by phone and 4-digit PIN.
func (s *Service) TechnicianLogin(ctx context.Context, creds TechnicianCredentials) (*Session, error) {
	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(creds.Phone))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if user.PinHash == nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PinHash), []byte(creds.Pin)); err != nil {
		s.recordFailure(ctx, user)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	return s.startSession(ctx, user)
}

// Verify validates a token and returns the current user.
func (s *Service) Verify(ctx context.Context, token string) (*User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}
	userID, err := id.Parse(claims.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token subject")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.NewForbidden("account is disabled")
	}
	return user, nil
}

// Authenticate validates a bearer token without touching the store.
func (s *Service) Authenticate(token string) (*appctx.UserContext, error) {
	user, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}
	return user, nil
}

func (s *Service) startSession(ctx context.Context, user *User) (*Session, error) {
	token, expiresAt, err := s.jwtService.GenerateAccessToken(user.UserContext())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	user.RecordSuccessfulLogin()
	if err := s.users.UpdateLoginState(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"role", user.Role)

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
		User:      user,
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, user *User) {
	user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
	if err := s.users.UpdateLoginState(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login failure", "user_id", user.ID, "error", err)
	}
}
