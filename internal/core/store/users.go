package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harulabs/mintgate/internal/auth"
)

// FindUserByEmail returns the admin user registered under email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s == nil || s.DB == nil {
		return nil, errNotInitialized
	}

	var (
		u     auth.User
		roles string
	)
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, roles, created_at
		FROM admin_users
		WHERE email = $1
	`, email)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &roles, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("find admin user: %w", err)
	}
	u.Roles = splitRoles(roles)
	return &u, nil
}

// CreateUser inserts a new admin user.
func (s *Store) CreateUser(ctx context.Context, user *auth.User) error {
	if s == nil || s.DB == nil {
		return errNotInitialized
	}
	if user == nil {
		return errors.New("user is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO admin_users (id, email, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Email, user.PasswordHash, strings.Join(user.Roles, ","), user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrUserExists
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

func splitRoles(raw string) []string {
	var roles []string
	for _, role := range strings.Split(raw, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
