package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bizerp/internal/core/apperror"
	appctx "bizerp/internal/core/context"
	"bizerp/internal/core/id"
)

type memUsers struct {
	mu    sync.Mutex
	users map[id.ID]*User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[id.ID]*User)}
}

func (m *memUsers) Create(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		c := *u
		return &c, nil
	}
	return nil, apperror.NewNotFound("user", userID)
}

func (m *memUsers) find(match func(*User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("user", "")
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *memUsers) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return m.find(func(u *User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (m *memUsers) Exists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) UpdateLoginState(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func newTestService() (*Service, *memUsers) {
	users := newMemUsers()
	cfg := DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.MaxLoginAttempts = 2
	return NewService(users, NewJWTService(DefaultJWTConfig("test-secret")), cfg), users
}

func strPtr(s string) *string { return &s }

func TestService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Name: "Asha", Email: "Asha@Example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, appctx.RoleStaff, user.Role)

	session, err := svc.Login(ctx, Credentials{Email: "asha@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "Bearer", session.TokenType)

	verified, err := svc.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	uc, err := svc.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, appctx.RoleStaff, uc.Role)
}

func TestService_Register_Rules(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "short"})
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))

	_, err = svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "long-enough", Role: "owner"})
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))

	_, err = svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "long-enough"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Name: "B", Email: "a@example.com", Password: "long-enough"})
	assert.Equal(t, 409, apperror.GetHTTPStatus(err))
}

func TestService_SignUpIgnoresRequestedRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "long-enough", Role: appctx.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, appctx.RoleStaff, user.Role)

	admin, err := svc.Register(ctx, RegisterRequest{
		Name: "Meera", Email: "meera@example.com", Password: "long-enough", Role: appctx.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, appctx.RoleAdmin, admin.Role)
}

func TestService_Login_LocksAfterFailures(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "long-enough"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.Login(ctx, Credentials{Email: "a@example.com", Password: "wrong-password"})
		assert.Equal(t, 401, apperror.GetHTTPStatus(err))
	}
	_, err = svc.Login(ctx, Credentials{Email: "a@example.com", Password: "long-enough"})
	assert.Equal(t, 403, apperror.GetHTTPStatus(err))

	_, err = svc.Login(ctx, Credentials{Email: "nobody@example.com", Password: "x"})
	assert.Equal(t, 401, apperror.GetHTTPStatus(err))
}

func TestService_TechnicianLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "long-enough",
		Phone: strPtr("9876543210"), Pin: strPtr("4321"), Role: appctx.RoleTechnician,
	})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{
		Name: "NoPin", Email: "nopin@example.com", Password: "long-enough", Phone: strPtr("9000000000"),
	})
	require.NoError(t, err)

	session, err := svc.TechnicianLogin(ctx, TechnicianCredentials{Phone: "9876543210", Pin: "4321"})
	require.NoError(t, err)
	assert.Equal(t, appctx.RoleTechnician, session.User.Role)

	_, err = svc.TechnicianLogin(ctx, TechnicianCredentials{Phone: "9876543210", Pin: "0000"})
	assert.Equal(t, 401, apperror.GetHTTPStatus(err))

	_, err = svc.TechnicianLogin(ctx, TechnicianCredentials{Phone: "9000000000", Pin: "1234"})
	assert.Equal(t, 401, apperror.GetHTTPStatus(err))
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(&appctx.UserContext{UserID: id.New().String(), Role: appctx.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)

	expired := NewJWTService(JWTConfig{Secret: "secret-a", Issuer: "bizerp", AccessTokenTTL: -time.Minute})
	token, _, err = expired.GenerateAccessToken(&appctx.UserContext{UserID: "u"})
	require.NoError(t, err)
	_, err = issuer.ValidateToken(token)
	assert.Error(t, err)
}
