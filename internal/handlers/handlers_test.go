package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextglide-backend/internal/auth"
	"nextglide-backend/internal/config"
	"nextglide-backend/internal/middleware"
	"nextglide-backend/internal/validation"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	return &Server{
		Cfg: &config.Config{AdminUser: "admin", AdminPasswordHash: hash},
		Auth: &auth.Manager{
			Secret:     []byte("test-secret"),
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
			Issuer:     "nextglide-backend",
		},
		Val: validation.New(),
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func login(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.AdminLogin(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body)))
	return rec
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", `{"username":"root","password":"s3cret"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest},
		{"ok", `{"username":"admin","password":"s3cret"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, login(t, s, tt.body).Code)
		})
	}

	s.Cfg.AdminPasswordHash = ""
	assert.Equal(t, http.StatusServiceUnavailable, login(t, s, `{"username":"admin","password":"s3cret"}`).Code)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := login(t, s, `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieNamed(rec.Result().Cookies(), middleware.AccessCookieName)
	refresh := cookieNamed(rec.Result().Cookies(), refreshCookieName)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(access)
	rec = httptest.NewRecorder()
	s.AdminMe(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)

	// A refresh token is not accepted as an access token.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessCookieName, Value: refresh.Value})
	rec = httptest.NewRecorder()
	s.AdminMe(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.AddCookie(refresh)
	rec = httptest.NewRecorder()
	s.AdminRefresh(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieNamed(rec.Result().Cookies(), middleware.AccessCookieName))

	req = httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: access.Value})
	rec = httptest.NewRecorder()
	s.AdminRefresh(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	s.AdminLogout(rec, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := cookieNamed(rec.Result().Cookies(), middleware.AccessCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestAdminAuthMiddlewareAcceptsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	rec := login(t, s, `{"username":"admin","password":"s3cret"}`)
	access := cookieNamed(rec.Result().Cookies(), middleware.AccessCookieName)
	require.NotNil(t, access)

	protected := middleware.AdminAuth("static-key", s.Auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.AddCookie(access)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("X-Admin-Key", "static-key")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	s.DB = pinger{err: errors.New("no reachable servers")}
	rec = httptest.NewRecorder()
	s.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
