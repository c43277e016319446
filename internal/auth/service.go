package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/harulabs/mintgate/internal/metrics"
)

// Sign-in outcomes reported to metrics.
const (
	SignInSuccess   = "success"
	SignInInvalid   = "invalid_credentials"
	SignInThrottled = "throttled"
	SignInError     = "error"
)

const (
	// DefaultSignInRate allows one failed attempt every 12 seconds per email.
	DefaultSignInRate  = rate.Limit(1.0 / 12)
	DefaultSignInBurst = 5

	maxTrackedEmails = 4096
)

// User is a provisioned administrator.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStore persists administrator accounts.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
}

// Session is returned by a successful sign-in.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
}

// Option configures Service.
type Option func(*Service)

// WithClock overrides the time source used for throttling.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithSignInLimit sets the per-email failed attempt budget.
func WithSignInLimit(limit rate.Limit, burst int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
		if burst > 0 {
			s.burst = burst
		}
	}
}

// WithLogger sets the logger used for sign-in events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service authenticates administrators and verifies their sessions.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
	now    func() time.Time
	logger *zap.Logger

	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	attempts map[string]*rate.Limiter
}

// NewService wires the user store and token issuer.
func NewService(users UserStore, tokens *TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:    users,
		tokens:   tokens,
		now:      time.Now,
		logger:   zap.NewNop(),
		limit:    DefaultSignInRate,
		burst:    DefaultSignInBurst,
		attempts: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn checks credentials and returns a signed session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.RecordSignIn(SignInInvalid)
		return nil, ErrInvalidCredentials
	}
	if s == nil || s.users == nil || s.tokens == nil {
		metrics.RecordSignIn(SignInError)
		return nil, ErrAuthUnavailable
	}

	now := s.now()
	limiter := s.limiterFor(email, now)
	if limiter.TokensAt(now) < 1 {
		metrics.RecordSignIn(SignInThrottled)
		s.logger.Warn("sign-in throttled", zap.String("email", email))
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, s.failed(email, limiter, now)
	case err != nil:
		metrics.RecordSignIn(SignInError)
		s.logger.Error("sign-in lookup failed", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, s.failed(email, limiter, now)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		metrics.RecordSignIn(SignInError)
		return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	s.mu.Lock()
	delete(s.attempts, email)
	s.mu.Unlock()

	metrics.RecordSignIn(SignInSuccess)
	s.logger.Info("admin signed in", zap.String("user_id", user.ID), zap.String("email", email))
	return &Session{Token: token, ExpiresAt: expiresAt, UserID: user.ID, Email: user.Email}, nil
}

// ParseToken verifies a session token.
func (s *Service) ParseToken(token string) (*Claims, error) {
	if s == nil || s.tokens == nil {
		return nil, ErrAuthUnavailable
	}
	return s.tokens.ParseToken(token)
}

// CreateUser provisions an administrator with a bcrypt password hash.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if s == nil || s.users == nil {
		return nil, ErrAuthUnavailable
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{RoleAdmin},
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) failed(email string, limiter *rate.Limiter, now time.Time) error {
	limiter.AllowN(now, 1)
	metrics.RecordSignIn(SignInInvalid)
	s.logger.Info("sign-in rejected", zap.String("email", email))
	return ErrInvalidCredentials
}

func (s *Service) limiterFor(email string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lim, ok := s.attempts[email]; ok {
		return lim
	}
	if len(s.attempts) >= maxTrackedEmails {
		for key, lim := range s.attempts {
			if lim.TokensAt(now) >= float64(s.burst) {
				delete(s.attempts, key)
			}
		}
	}
	lim := rate.NewLimiter(s.limit, s.burst)
	s.attempts[email] = lim
	return lim
}
