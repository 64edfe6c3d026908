package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/pkg/auth"
)

// ContextKey for storing request metadata
type ContextKey string

const (
	ContextKeySessionUser ContextKey = "session_user"
)

// Session cookie names. Both are HttpOnly; the refresh cookie is
// additionally scoped to the whole site so the gate can renew the
// access token on any route.
const (
	AccessTokenCookie  = "taskdeck_session"
	RefreshTokenCookie = "taskdeck_refresh"
)

// SessionUser is the authenticated identity the route gate attaches to
// the request context. Services read it instead of re-validating the
// cookie themselves.
type SessionUser struct {
	ID    uuid.UUID
	Email string
}

// WithSessionUser returns a context carrying the session user.
func WithSessionUser(ctx context.Context, user *SessionUser) context.Context {
	return context.WithValue(ctx, ContextKeySessionUser, user)
}

// SessionUserFromContext extracts the session user from the context.
func SessionUserFromContext(ctx context.Context) (*SessionUser, bool) {
	user, ok := ctx.Value(ContextKeySessionUser).(*SessionUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// SetSessionCookies writes a freshly issued token pair to the response.
func SetSessionCookies(w http.ResponseWriter, accessToken, refreshToken string, tm *auth.TokenManager, secure bool) {
	setCookie(w, AccessTokenCookie, accessToken, tm.AccessTokenDuration(), secure)
	setCookie(w, RefreshTokenCookie, refreshToken, tm.RefreshTokenDuration(), secure)
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	setCookie(w, AccessTokenCookie, "", -time.Hour, secure)
	setCookie(w, RefreshTokenCookie, "", -time.Hour, secure)
}

func setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
