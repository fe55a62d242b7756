// Package clienttest builds per-browser clients for handler tests.
package clienttest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/themes"
)

const (
	DeviceID  = "0b8f1f52-8d0e-4d3c-9c61-6a2f4d1f9e01"
	SessionID = "7e4c2a10-33b5-4f0e-a7a2-1c9b7d5e6f02"
)

// Env is an in-memory store, theme pool and one client bound to them.
type Env struct {
	Store    *storage.Store
	Registry *themes.Registry
	Pool     *themes.Pool
	Client   *authz.Client
}

// New returns an Env whose client is not signed in.
func New(t *testing.T) *Env {
	t.Helper()

	registry, err := themes.LoadCatalog()
	if err != nil {
		t.Fatalf("load theme catalog: %v", err)
	}
	store := storage.NewMemoryStore(storage.Options{KeyPrefix: "wfx:", SessionTTL: time.Hour})
	pool := themes.NewPool(registry, store, time.Hour)

	svc := store.For(DeviceID, SessionID)
	client := &authz.Client{
		DeviceID:  DeviceID,
		SessionID: SessionID,
		Storage:   svc,
		Theme:     pool.Get(context.Background(), DeviceID, SessionID),
		Notify:    notify.New(svc),
	}
	return &Env{Store: store, Registry: registry, Pool: pool, Client: client}
}

// SignIn writes an auth token into the client's session scope.
func (e *Env) SignIn(t *testing.T) {
	t.Helper()
	if err := storage.Set(context.Background(), e.Client.Storage, authz.AuthTokenKey, "test-token", storage.Session); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

// Request attaches the client to r.
func (e *Env) Request(r *http.Request) *http.Request {
	return r.WithContext(authz.ContextWithClient(r.Context(), e.Client))
}

// Toasts drains the client's queued toasts.
func (e *Env) Toasts(t *testing.T) []notify.Message {
	t.Helper()
	messages, err := e.Client.Notify.Drain(context.Background())
	if err != nil {
		t.Fatalf("drain toasts: %v", err)
	}
	return messages
}
