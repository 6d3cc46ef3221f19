package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/salespipe/crm-backend/internal/auth"
	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/usecase"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves the bearer token (cookie or Authorization
// header) into a caller identity exactly once per request. INACTIVE
// users read as unauthenticated no matter how valid their token is.
type Authenticator struct {
	Tokens     *auth.Manager
	Users      entity.UserRepository
	CookieName string
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r, a.CookieName)
		if tokenStr == "" {
			unauthenticated(w)
			return
		}

		claims, err := a.Tokens.Parse(tokenStr)
		if err != nil {
			unauthenticated(w)
			return
		}

		user, err := a.Users.FindByID(r.Context(), claims.Subject)
		if err != nil || user.Status != entity.UserActive {
			unauthenticated(w)
			return
		}

		// Role comes from the user row, not the token: a role change
		// takes effect without waiting for the token to expire.
		identity := usecase.Identity{UserID: user.ID, Role: user.Role}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates team administration. Runs after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok || identity.Role != entity.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"Admin access required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func IdentityFrom(ctx context.Context) (usecase.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(usecase.Identity)
	return identity, ok
}

// WithIdentity is a test hook for handler tests that skip the full
// middleware stack.
func WithIdentity(ctx context.Context, identity usecase.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func extractToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"Authentication required"}`))
}
