package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ViniciusCazuza/minimal-api/internal/render"
)

type contextKey string

const principalContextKey contextKey = "minimalapi_principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok
}

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller in the request context.
func JWTMiddleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
				render.Error(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			token := strings.TrimSpace(h[len("Bearer "):])
			claims, err := svc.ParseToken(token)
			if err != nil {
				render.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			p := &Principal{Email: claims.Email, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole lets the request through only when the caller's role is one of
// roles.
func RequireRole(next http.HandlerFunc, roles ...Role) http.HandlerFunc {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			render.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			render.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r)
	}
}
