package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/pkg/auth"
)

// RouteGate intercepts every request, refreshes or validates the
// session cookies, and redirects between the public auth pages and the
// protected dashboard. It is stateless per request: classification and
// redirect are decided from the path and session presence alone.
//
// The gate is not the sole enforcement point; the service layer
// re-checks authentication on every call.
type RouteGate struct {
	tokens *auth.TokenManager
	secure bool
}

// NewRouteGate creates a new route gate
func NewRouteGate(tokens *auth.TokenManager, secure bool) *RouteGate {
	return &RouteGate{
		tokens: tokens,
		secure: secure,
	}
}

// Image suffixes and static paths are never intercepted.
var imageSuffixes = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"}

func isStaticAsset(path string) bool {
	if strings.HasPrefix(path, "/static/") || path == "/favicon.ico" {
		return true
	}
	for _, suffix := range imageSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func isAuthPage(path string) bool {
	return path == "/login" || path == "/signup"
}

func isProtected(path string) bool {
	return path == "/dashboard" ||
		strings.HasPrefix(path, "/dashboard/") ||
		path == "/tasks" ||
		strings.HasPrefix(path, "/tasks/")
}

// Middleware returns the gate as a standard http middleware.
func (g *RouteGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if isStaticAsset(path) {
			next.ServeHTTP(w, r)
			return
		}

		user := g.refreshSession(w, r)

		if user != nil && isAuthPage(path) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		if user == nil && isProtected(path) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if user != nil {
			r = r.WithContext(WithSessionUser(r.Context(), user))
		}

		next.ServeHTTP(w, r)
	})
}

// refreshSession validates the access cookie, falling back to a silent
// refresh when it is missing or expired. A successful refresh sets a
// new access cookie on the response before the handler runs.
func (g *RouteGate) refreshSession(w http.ResponseWriter, r *http.Request) *SessionUser {
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		if user := g.userFromAccessToken(c.Value); user != nil {
			return user
		}
	}

	c, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return nil
	}

	accessToken, claims, err := g.tokens.RefreshAccessToken(c.Value)
	if err != nil {
		return nil
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}

	setCookie(w, AccessTokenCookie, accessToken, g.tokens.AccessTokenDuration(), g.secure)

	return &SessionUser{ID: id, Email: claims.Email}
}

func (g *RouteGate) userFromAccessToken(token string) *SessionUser {
	claims, err := g.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}

	return &SessionUser{ID: id, Email: claims.Email}
}
