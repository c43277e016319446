package auth

import "context"

// Principal identifies the administrator behind a request.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

type principalContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}

// Actor returns a label for audit records: the principal email, or "system"
// for unauthenticated callers such as the CLI.
func Actor(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok && p.Email != "" {
		return p.Email
	}
	return "system"
}
