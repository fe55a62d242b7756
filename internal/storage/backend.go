package storage

import "context"

// Backend persists string values keyed by (namespace, key). A namespace is a
// single client's device or session id.
type Backend interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Remove(ctx context.Context, namespace, key string) error
	ClearPrefix(ctx context.Context, namespace, prefix string) error
	Keys(ctx context.Context, namespace string) ([]string, error)
}
