package httpx

import (
	"context"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"bookalchemy/internal/platform/crypto"
)

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator validates bearer tokens. Revoked is optional.
type Authenticator struct {
	Secret  string
	Revoked RevocationChecker
}

// Require accepts a bearer token signed with Secret. When roles is non-empty
// the token role must be one of them.
func (a *Authenticator) Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := crypto.ParseToken(a.Secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			if a.Revoked != nil {
				revoked, err := a.Revoked.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					log.Printf("auth: revocation check failed jti=%s error=%v", claims.ID, err)
					JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
					return
				}
				if revoked {
					JSONError(w, r, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked", nil)
					return
				}
			}

			if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient role", nil)
				return
			}

			var expiresAt time.Time
			if claims.ExpiresAt != nil {
				expiresAt = claims.ExpiresAt.Time
			}
			ctx := ContextWithSubject(r.Context(), claims.Sub, claims.Role)
			ctx = ContextWithToken(ctx, claims.ID, expiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
