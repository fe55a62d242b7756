package storageapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/ratelimit"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/testutil/clienttest"
	"github.com/codr1/wfxconsole/internal/themes"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newMux(env *clienttest.Env) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/storage/{scope}", HandleKeys)
	mux.HandleFunc("DELETE /api/v1/storage/{scope}", HandleClear)
	mux.HandleFunc("GET /api/v1/storage/{scope}/{key}", HandleGet)
	mux.HandleFunc("PUT /api/v1/storage/{scope}/{key}", HandlePut)
	mux.HandleFunc("DELETE /api/v1/storage/{scope}/{key}", HandleDelete)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, env.Request(r))
	})
}

func setup(t *testing.T) (*clienttest.Env, http.Handler) {
	t.Helper()
	prevPool, prevThrottle := pool, throttle
	t.Cleanup(func() { pool, throttle = prevPool, prevThrottle })

	env := clienttest.New(t)
	InitHandlers(env.Pool, nil)
	return env, newMux(env)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPutAndGet(t *testing.T) {
	env, h := setup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		body      string
		wantRaw   string
		wantValue string
	}{
		{name: "string", body: `"hello"`, wantRaw: "hello", wantValue: `"hello"`},
		{name: "object", body: "{ \"a\": 1 }", wantRaw: `{"a":1}`, wantValue: `{"a":1}`},
		{name: "bool", body: `true`, wantRaw: "true", wantValue: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPut, "/api/v1/storage/durable/"+tt.name, tt.body)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("PUT status = %d, want %d: %s", rec.Code, http.StatusNoContent, rec.Body.String())
			}
			raw, _, err := env.Client.Storage.GetRaw(ctx, tt.name, storage.Durable)
			if err != nil || raw != tt.wantRaw {
				t.Fatalf("stored = %q (err %v), want %q", raw, err, tt.wantRaw)
			}

			rec = do(h, http.MethodGet, "/api/v1/storage/durable/"+tt.name, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
			}
			var resp entryResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if string(resp.Value) != tt.wantValue || resp.Scope != "durable" {
				t.Fatalf("GET = %+v, want value %s", resp, tt.wantValue)
			}
		})
	}
}

func TestScopesAreIndependent(t *testing.T) {
	env, h := setup(t)

	do(h, http.MethodPut, "/api/v1/storage/session/draft", `"session copy"`)
	if rec := do(h, http.MethodGet, "/api/v1/storage/local/draft", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("durable GET status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	raw, ok, _ := env.Client.Storage.GetRaw(context.Background(), "draft", storage.Session)
	if !ok || raw != "session copy" {
		t.Fatalf("session value = %q, want %q", raw, "session copy")
	}
}

func TestReservedSessionKeys(t *testing.T) {
	env, h := setup(t)
	env.SignIn(t)

	keys := []string{
		authz.AuthTokenKey,
		"%20" + authz.AuthTokenKey,
		authz.AuthTokenKey + "%20%09",
		notify.QueueKey,
		"%20" + notify.QueueKey,
	}
	for _, key := range keys {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			rec := do(h, method, "/api/v1/storage/session/"+key, `"forged"`)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("%s %q status = %d, want %d", method, key, rec.Code, http.StatusForbidden)
			}
		}
	}

	token, _, err := storage.Get[string](context.Background(), env.Client.Storage, authz.AuthTokenKey, storage.Session)
	if err != nil || token != "test-token" {
		t.Fatalf("auth token = %q (err %v), want test-token", token, err)
	}
}

func TestClearKeepsSignIn(t *testing.T) {
	env, h := setup(t)
	env.SignIn(t)
	ctx := context.Background()

	do(h, http.MethodPut, "/api/v1/storage/session/a", `1`)
	do(h, http.MethodPut, "/api/v1/storage/session/b", `2`)

	rec := do(h, http.MethodDelete, "/api/v1/storage/session", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	keys, err := env.Client.Storage.Keys(ctx, storage.Session)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != authz.AuthTokenKey {
		t.Fatalf("Keys() = %v, want only %s", keys, authz.AuthTokenKey)
	}
	if !env.Client.Authenticated(ctx) {
		t.Fatal("client signed out by clear")
	}
}

func TestKeysHidesReserved(t *testing.T) {
	env, h := setup(t)
	env.SignIn(t)

	do(h, http.MethodPut, "/api/v1/storage/session/zeta", `1`)
	do(h, http.MethodPut, "/api/v1/storage/session/alpha", `1`)

	rec := do(h, http.MethodGet, "/api/v1/storage/session", "")
	var resp keysResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(resp.Keys, ",") != "alpha,zeta" {
		t.Fatalf("Keys = %v, want [alpha zeta]", resp.Keys)
	}
}

func TestThemeWriteReachesSubscribers(t *testing.T) {
	env, h := setup(t)
	ctx := context.Background()
	before := env.Pool.Get(ctx, clienttest.DeviceID, clienttest.SessionID)

	updates, cancel := before.Subscribe()
	defer cancel()
	if got := receive(t, updates); got != "elementary" {
		t.Fatalf("initial theme = %q, want elementary", got)
	}

	rec := do(h, http.MethodPut, "/api/v1/storage/durable/"+themes.PreferenceKey, `"forest"`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := receive(t, updates); got != "forest" {
		t.Fatalf("theme after storage write = %q, want forest", got)
	}
	if before.Marker.Value() != "forest" {
		t.Fatalf("marker = %q, want forest", before.Marker.Value())
	}

	after := env.Pool.Get(ctx, clienttest.DeviceID, clienttest.SessionID)
	if after != before {
		t.Fatal("pool replaced a service that has subscribers")
	}
	after.SetTheme(ctx, "sunset")
	if got := receive(t, updates); got != "sunset" {
		t.Fatalf("theme after SetTheme = %q, want sunset", got)
	}

	if rec := do(h, http.MethodDelete, "/api/v1/storage/durable", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := receive(t, updates); got != "elementary" {
		t.Fatalf("theme after clear = %q, want elementary", got)
	}
}

func receive(t *testing.T, updates <-chan themes.Theme) string {
	t.Helper()
	select {
	case theme := <-updates:
		return theme.ID
	case <-time.After(time.Second):
		t.Fatal("no theme update received")
		return ""
	}
}

func TestErrors(t *testing.T) {
	_, h := setup(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "bad scope", method: http.MethodGet, path: "/api/v1/storage/cookie/x", want: http.StatusBadRequest},
		{name: "missing", method: http.MethodGet, path: "/api/v1/storage/durable/none", want: http.StatusNotFound},
		{name: "invalid body", method: http.MethodPut, path: "/api/v1/storage/durable/x", body: `{oops`, want: http.StatusBadRequest},
		{name: "delete absent", method: http.MethodDelete, path: "/api/v1/storage/durable/none", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(h, tt.method, tt.path, tt.body); rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestQuotaExceeded(t *testing.T) {
	prevPool, prevThrottle := pool, throttle
	t.Cleanup(func() { pool, throttle = prevPool, prevThrottle })
	InitHandlers(nil, nil)

	env := clienttest.New(t)
	small := storage.NewMemoryStore(storage.Options{KeyPrefix: "wfx:", MaxValueBytes: 8})
	env.Client.Storage = small.For(clienttest.DeviceID, clienttest.SessionID)

	rec := do(newMux(env), http.MethodPut, "/api/v1/storage/durable/big", `"this value is too long"`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestWriteThrottle(t *testing.T) {
	env, _ := setup(t)
	InitHandlers(env.Pool, ratelimit.NewThrottle(1, 2, fixedClock{now: time.Now()}))
	h := newMux(env)

	for i := 0; i < 2; i++ {
		if rec := do(h, http.MethodPut, "/api/v1/storage/durable/k", `1`); rec.Code != http.StatusNoContent {
			t.Fatalf("write %d status = %d, want %d", i+1, rec.Code, http.StatusNoContent)
		}
	}
	rec := do(h, http.MethodPut, "/api/v1/storage/durable/k", `1`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec := do(h, http.MethodGet, "/api/v1/storage/durable/k", ""); rec.Code != http.StatusOK {
		t.Fatalf("reads are throttled: status = %d", rec.Code)
	}
}
