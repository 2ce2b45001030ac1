package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medadmit/internal/config"
	"medadmit/internal/database/databasetest"
	"medadmit/internal/ratelimit"
	"medadmit/internal/services"
	"medadmit/internal/session"
	"medadmit/internal/store"
	"medadmit/internal/util"
)

const (
	adminUser     = "counsellor"
	adminPassword = "s3cret-pass"
)

type testEnv struct {
	handler  http.Handler
	stores   *store.Stores
	sessions *session.MemoryStore
	forms    *services.Forms
}

type envOption func(*Deps)

func withLimiter(l *ratelimit.SlidingWindow) envOption {
	return func(d *Deps) { d.Limiter = l }
}

func withTrustProxy() envOption {
	return func(d *Deps) { d.Config.RateLimit.TrustProxy = true }
}

func withEnv(env string) envOption {
	return func(d *Deps) { d.Config.App.Env = env }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db := databasetest.New(t)
	stores := store.New(db)

	hash, err := util.HashPasswordWithCost(adminPassword, 4)
	require.NoError(t, err)

	cfg := &config.Config{
		App:   config.AppConfig{Name: "medadmit", Version: "test", Env: "test"},
		Admin: config.AdminConfig{Username: adminUser, PasswordHash: hash},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         600,
		},
		Dashboard: config.DashboardConfig{RecentLimit: 10},
	}

	sessions := session.NewMemoryStore()
	forms := services.NewForms(stores, nil)
	deps := Deps{
		Config: cfg,
		Forms:  forms,
		Auth:   services.NewAuthService(cfg.Admin, sessions, util.NewTokenSigner("0123456789abcdef0123456789abcdef", 24*time.Hour), stores.Audit),
		Admin:  services.NewAdminService(stores, cfg.Dashboard.RecentLimit),
		Blogs:  services.NewBlogService(stores.Blogs, stores.Audit),
		Health: services.NewHealthService(db, stores, cfg.App.Name, cfg.App.Version, true),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &testEnv{
		handler:  NewServer(deps).Handler(),
		stores:   stores,
		sessions: sessions,
		forms:    forms,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postJSON(path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

// login signs in and returns the session cookie
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.postForm("/admin/login", url.Values{"username": {adminUser}, "password": {adminPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	c := sessionCookie(rec)
	require.NotNil(t, c, "login did not set a session cookie")
	return c
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func count(t *testing.T, fn func(context.Context) (int64, error)) int64 {
	t.Helper()
	n, err := fn(context.Background())
	require.NoError(t, err)
	return n
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

type httptestRecorder = httptest.ResponseRecorder

func ioNopCloser(body string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(body))
}
