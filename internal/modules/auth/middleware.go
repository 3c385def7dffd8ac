package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/respond"
)

type claimsKeyType struct{}

var claimsKey = claimsKeyType{}

// Middleware guards routes with token verification.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware creates route guards backed by the given token service.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// CookieName is the cookie that carries the access token.
const CookieName = "token"

// SetTokenCookie attaches the access token as an http-only cookie.
func SetTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// ClearTokenCookie expires the token cookie.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// tokenFromRequest reads the token cookie, falling back to the Authorization
// bearer header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Require verifies the request token and checks its scope. On failure the
// cookie is cleared and a 401 envelope is written.
func (m *Middleware) Require(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				ClearTokenCookie(w)
				respond.Error(w, r, apperror.Auth("Authentication token is missing"))
				return
			}
			claims, err := m.tokens.Verify(tokenString)
			if err != nil {
				ClearTokenCookie(w)
				respond.Error(w, r, err)
				return
			}
			if claims.Scope != scope {
				ClearTokenCookie(w)
				respond.Error(w, r, apperror.Auth("Unauthorized access"))
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the verified claims stored by Require.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
