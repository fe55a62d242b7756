// Package authz carries the per-browser client through request contexts.
package authz

import (
	"context"
	"errors"

	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/themes"
)

// AuthTokenKey is the session-scope key that marks a signed-in browser.
const AuthTokenKey = "auth_token"

var ErrUnauthenticated = errors.New("unauthenticated")

// Client is one browser: its device and session ids, its storage view,
// its theme service and its toast queue.
type Client struct {
	DeviceID  string
	SessionID string
	Storage   *storage.Service
	Theme     *themes.Client
	Notify    *notify.Service
}

type clientContextKey struct{}

func ContextWithClient(ctx context.Context, client *Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

// ClientFromContext returns nil if ctx carries no client.
func ClientFromContext(ctx context.Context) *Client {
	if ctx == nil {
		return nil
	}
	client, ok := ctx.Value(clientContextKey{}).(*Client)
	if !ok {
		return nil
	}
	return client
}

// Authenticated reports whether the client's session holds an auth token.
func (c *Client) Authenticated(ctx context.Context) bool {
	if c == nil || c.Storage == nil {
		return false
	}
	token, ok, err := storage.Get[string](ctx, c.Storage, AuthTokenKey, storage.Session)
	return err == nil && ok && token != ""
}

// RequireClient returns ErrUnauthenticated when ctx has no signed-in client.
func RequireClient(ctx context.Context) (*Client, error) {
	client := ClientFromContext(ctx)
	if !client.Authenticated(ctx) {
		return nil, ErrUnauthenticated
	}
	return client, nil
}
