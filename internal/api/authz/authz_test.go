package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/codr1/wfxconsole/internal/storage"
)

func TestClientFromContext(t *testing.T) {
	if got := ClientFromContext(context.Background()); got != nil {
		t.Fatalf("ClientFromContext() = %v, want nil", got)
	}
	client := &Client{DeviceID: "dev"}
	ctx := ContextWithClient(context.Background(), client)
	if got := ClientFromContext(ctx); got != client {
		t.Fatalf("ClientFromContext() = %v, want %v", got, client)
	}
}

func TestAuthenticated(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.Options{KeyPrefix: "wfx:", MaxValueBytes: 1024})
	client := &Client{DeviceID: "dev", SessionID: "sess", Storage: store.For("dev", "sess")}

	if client.Authenticated(ctx) {
		t.Fatal("Authenticated() = true before login")
	}
	if _, err := RequireClient(ContextWithClient(ctx, client)); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("RequireClient() error = %v, want %v", err, ErrUnauthenticated)
	}

	if err := storage.Set(ctx, client.Storage, AuthTokenKey, "token", storage.Session); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !client.Authenticated(ctx) {
		t.Fatal("Authenticated() = false after login")
	}

	other := &Client{Storage: store.For("dev", "other-session")}
	if other.Authenticated(ctx) {
		t.Fatal("Authenticated() = true for another session")
	}

	var nilClient *Client
	if nilClient.Authenticated(ctx) {
		t.Fatal("nil client Authenticated() = true")
	}
}
