package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/pkg/auth"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestGate(t *testing.T) (*RouteGate, *auth.TokenManager) {
	t.Helper()

	tm := auth.NewTokenManager(testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour)
	return NewRouteGate(tm, false), tm
}

// passThrough records whether the gate let the request reach the
// handler and which user it attached.
type passThrough struct {
	called bool
	user   *SessionUser
}

func (p *passThrough) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.called = true
	p.user, _ = SessionUserFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRouteGate_Redirects(t *testing.T) {
	gate, tm := newTestGate(t)
	userID := uuid.New()

	accessToken, _, err := tm.GenerateTokenPair(userID.String(), "user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name         string
		path         string
		withSession  bool
		wantRedirect string
	}{
		{name: "authenticated on login page", path: "/login", withSession: true, wantRedirect: "/dashboard"},
		{name: "authenticated on signup page", path: "/signup", withSession: true, wantRedirect: "/dashboard"},
		{name: "anonymous on dashboard", path: "/dashboard", wantRedirect: "/login"},
		{name: "anonymous on dashboard subpath", path: "/dashboard/anything", wantRedirect: "/login"},
		{name: "anonymous on task mutation route", path: "/tasks/123", wantRedirect: "/login"},
		{name: "anonymous on login page passes", path: "/login"},
		{name: "anonymous on signup page passes", path: "/signup"},
		{name: "authenticated on dashboard passes", path: "/dashboard", withSession: true},
		{name: "static path never intercepted", path: "/static/app.css"},
		{name: "static path never intercepted with session", path: "/static/app.css", withSession: true},
		{name: "favicon never intercepted", path: "/favicon.ico"},
		{name: "image suffix never intercepted", path: "/logo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &passThrough{}
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.withSession {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: accessToken})
			}
			rec := httptest.NewRecorder()

			gate.Middleware(next).ServeHTTP(rec, req)

			if tt.wantRedirect != "" {
				assert.False(t, next.called, "handler must not run on redirect")
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, tt.wantRedirect, rec.Header().Get("Location"))
				return
			}

			assert.True(t, next.called)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestRouteGate_AttachesSessionUser(t *testing.T) {
	gate, tm := newTestGate(t)
	userID := uuid.New()

	accessToken, _, err := tm.GenerateTokenPair(userID.String(), "user@example.com")
	require.NoError(t, err)

	next := &passThrough{}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: accessToken})
	rec := httptest.NewRecorder()

	gate.Middleware(next).ServeHTTP(rec, req)

	require.True(t, next.called)
	require.NotNil(t, next.user)
	assert.Equal(t, userID, next.user.ID)
	assert.Equal(t, "user@example.com", next.user.Email)
}

func TestRouteGate_SilentRefresh(t *testing.T) {
	gate, tm := newTestGate(t)
	userID := uuid.New()

	// Mint an already-expired access token alongside a live refresh
	// token, sharing secrets with the gate's manager.
	expiredIssuer := auth.NewTokenManager(testAccessSecret, testRefreshSecret, -time.Minute, 24*time.Hour)
	expiredAccess, refreshToken, err := expiredIssuer.GenerateTokenPair(userID.String(), "user@example.com")
	require.NoError(t, err)

	next := &passThrough{}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: refreshToken})
	rec := httptest.NewRecorder()

	gate.Middleware(next).ServeHTTP(rec, req)

	require.True(t, next.called, "refreshed session must pass through")
	require.NotNil(t, next.user)
	assert.Equal(t, userID, next.user.ID)

	// The response carries a fresh, valid access cookie.
	var refreshed string
	for _, c := range rec.Result().Cookies() {
		if c.Name == AccessTokenCookie {
			refreshed = c.Value
		}
	}
	require.NotEmpty(t, refreshed, "expected a refreshed access cookie")
	claims, err := tm.ValidateAccessToken(refreshed)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestRouteGate_ExpiredSessionWithoutRefresh(t *testing.T) {
	gate, _ := newTestGate(t)

	expiredIssuer := auth.NewTokenManager(testAccessSecret, testRefreshSecret, -time.Minute, 24*time.Hour)
	expiredAccess, _, err := expiredIssuer.GenerateTokenPair(uuid.NewString(), "user@example.com")
	require.NoError(t, err)

	next := &passThrough{}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: expiredAccess})
	rec := httptest.NewRecorder()

	gate.Middleware(next).ServeHTTP(rec, req)

	assert.False(t, next.called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
