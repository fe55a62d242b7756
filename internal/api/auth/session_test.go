package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/config"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/themes"
)

type testEnv struct {
	store *storage.Store
	pool  *themes.Pool
}

func setupAuthTest(t *testing.T, env string) testEnv {
	t.Helper()

	prevConfig, prevStore, prevLimiter, prevAccounts := appConfig, store, limiter, accounts
	t.Cleanup(func() {
		appConfig, store, limiter, accounts = prevConfig, prevStore, prevLimiter, prevAccounts
	})

	registry, err := themes.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	cfg := config.Default()
	cfg.App.Environment = env
	cfg.Auth.Enabled = true
	cfg.Auth.Username = "admin"
	hash, err := HashPassword("console-pass-1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	cfg.Auth.PasswordHash = hash

	s := storage.NewMemoryStore(storage.Options{KeyPrefix: "wfx:", SessionTTL: time.Hour})
	InitHandlers(cfg, s, nil, nil)
	return testEnv{store: s, pool: themes.NewPool(registry, s, time.Hour)}
}

func cookieValue(t *testing.T, rec *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestWithClient_IssuesCookies(t *testing.T) {
	env := setupAuthTest(t, "development")

	var got *authz.Client
	h := WithClient(env.store, env.pool)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authz.ClientFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil || got.Storage == nil || got.Theme == nil || got.Notify == nil {
		t.Fatalf("client = %+v, want fully populated", got)
	}
	device := cookieValue(t, rec, DeviceCookieName)
	if _, err := uuid.Parse(device); err != nil || device != got.DeviceID {
		t.Fatalf("device cookie = %q, want client device id %q", device, got.DeviceID)
	}
	if session := cookieValue(t, rec, SessionCookieName); session != got.SessionID {
		t.Fatalf("session cookie = %q, want %q", session, got.SessionID)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Secure {
			t.Fatalf("cookie %s Secure = true in development", c.Name)
		}
	}
}

func TestWithClient_ReusesValidCookies(t *testing.T) {
	env := setupAuthTest(t, "production")

	device, session := uuid.NewString(), uuid.NewString()
	var got *authz.Client
	h := WithClient(env.store, env.pool)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authz.ClientFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.AddCookie(&http.Cookie{Name: DeviceCookieName, Value: device})
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got.DeviceID != device {
		t.Fatalf("DeviceID = %q, want %q", got.DeviceID, device)
	}
	if got.SessionID == session || got.SessionID == "not-a-uuid" {
		t.Fatalf("SessionID = %q, want a fresh id", got.SessionID)
	}
	if cookieValue(t, rec, DeviceCookieName) != "" {
		t.Fatal("device cookie rewritten for a valid id")
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && !c.Secure {
			t.Fatal("session cookie Secure = false in production")
		}
	}
}

func TestWithClient_SkipsStatic(t *testing.T) {
	env := setupAuthTest(t, "development")

	h := WithClient(env.store, env.pool)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authz.ClientFromContext(r.Context()) != nil {
			t.Fatal("static request got a client")
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("static request set cookies")
	}
}

func TestRequireLogin(t *testing.T) {
	env := setupAuthTest(t, "development")

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := WithClient(env.store, env.pool)(RequireLogin(true)(ok))

	tests := []struct {
		name       string
		path       string
		htmx       bool
		wantStatus int
		wantHeader string
		wantValue  string
	}{
		{name: "page redirects", path: "/users?page=2", wantStatus: http.StatusSeeOther, wantHeader: "Location", wantValue: "/login?next=/users?page=2"},
		{name: "htmx redirects", path: "/users/list", htmx: true, wantStatus: http.StatusUnauthorized, wantHeader: "HX-Redirect", wantValue: "/login"},
		{name: "api unauthorized", path: "/api/v1/users", wantStatus: http.StatusUnauthorized},
		{name: "login exempt", path: "/login", wantStatus: http.StatusTeapot},
		{name: "health exempt", path: "/health", wantStatus: http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantHeader != "" && rec.Header().Get(tt.wantHeader) != tt.wantValue {
				t.Fatalf("%s = %q, want %q", tt.wantHeader, rec.Header().Get(tt.wantHeader), tt.wantValue)
			}
		})
	}
}

func TestRequireLogin_Disabled(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	RequireLogin(false)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/users":               "/users",
		"//evil.example":       "/",
		"https://evil.example": "/",
		"/\\evil.example":      "/",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Fatalf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
