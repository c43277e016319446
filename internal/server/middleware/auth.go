package middleware

import (
	"net/http"
	"strings"

	"github.com/harulabs/mintgate/internal/auth"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// RequireAdmin rejects requests without a valid admin bearer token and stores
// the principal in the request context. Errors are written through respond so
// the central error envelope is used.
func RequireAdmin(parser TokenParser, respond func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || parser == nil {
				respond(w, r, auth.ErrUnauthenticated)
				return
			}

			claims, err := parser.ParseToken(token)
			if err != nil {
				respond(w, r, err)
				return
			}
			if !claims.HasRole(auth.RoleAdmin) {
				respond(w, r, auth.ErrForbidden)
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), auth.Principal{
				UserID: claims.Subject,
				Email:  claims.Email,
				Roles:  claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
