package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer is stamped into every session token.
	Issuer = "mintgate"
	// RoleAdmin grants access to allowlist administration.
	RoleAdmin = "admin"

	DefaultTokenTTL = 12 * time.Hour
	minSecretLength = 16
)

// Claims represents JWT claims carried by admin session tokens.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry role.
func (c *Claims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer. A zero ttl selects DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("%w: jwt secret must be at least %d characters", ErrInvalidInput, minSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the session lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token for user.
func (t *TokenIssuer) Issue(user *User) (string, time.Time, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return "", time.Time{}, errors.New("user id is required")
	}

	now := t.now().UTC()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		Email: user.Email,
		Roles: dedupeRoles(user.Roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies the signature, issuer and expiry of token.
func (t *TokenIssuer) ParseToken(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(t.now),
	)

	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	claims.Roles = dedupeRoles(claims.Roles)
	return claims, nil
}

func dedupeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	var normalized []string
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		normalized = append(normalized, role)
	}
	return normalized
}
