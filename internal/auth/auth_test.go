package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memUsers struct {
	mu    sync.Mutex
	users map[string]*User
	err   error
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = map[string]*User{}
	}
	if _, ok := m.users[user.Email]; ok {
		return ErrUserExists
	}
	m.users[user.Email] = user
	return nil
}

func newTestService(t *testing.T, now *time.Time, opts ...Option) (*Service, *memUsers) {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	issuer.now = func() time.Time { return *now }

	users := &memUsers{}
	opts = append([]Option{WithClock(func() time.Time { return *now })}, opts...)
	svc := NewService(users, issuer, opts...)
	_, err = svc.CreateUser(context.Background(), "Admin@Example.com", "correct horse")
	require.NoError(t, err)
	return svc, users
}

func TestSignInIssuesAdminToken(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)

	session, err := svc.SignIn(context.Background(), "  admin@example.COM ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", session.Email)
	assert.WithinDuration(t, now.Add(time.Hour), session.ExpiresAt, time.Second)

	claims, err := svc.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.True(t, claims.HasRole(RoleAdmin))
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)

	_, err := svc.SignIn(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(context.Background(), "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInThrottlesRepeatedFailures(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now, WithSignInLimit(rate.Every(time.Minute), 3))

	for i := 0; i < 3; i++ {
		_, err := svc.SignIn(context.Background(), "admin@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.SignIn(context.Background(), "admin@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	now = now.Add(61 * time.Second)
	_, err = svc.SignIn(context.Background(), "admin@example.com", "correct horse")
	assert.NoError(t, err)
}

func TestSignInStoreFailure(t *testing.T) {
	now := time.Now()
	svc, users := newTestService(t, &now)
	users.err = errors.New("connection refused")

	_, err := svc.SignIn(context.Background(), "admin@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrAuthUnavailable)
}

func TestCreateUserValidation(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)

	_, err := svc.CreateUser(context.Background(), "not-an-email", "long enough")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateUser(context.Background(), "ops@example.com", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateUser(context.Background(), "admin@example.com", "another password")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, &now)

	session, err := svc.SignIn(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.ParseToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Roles: []string{RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("short", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "system", Actor(ctx))

	ctx = ContextWithPrincipal(ctx, Principal{UserID: "u1", Email: "a@example.com", Roles: []string{RoleAdmin}})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "a@example.com", Actor(ctx))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword(hash, "secret-pass"))
	assert.Error(t, VerifyPassword(hash, "nope"))
	assert.Error(t, VerifyPassword("", "nope"))

	_, err = HashPassword("")
	assert.Error(t, err)
}
