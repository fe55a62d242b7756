package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/codr1/wfxconsole/internal/db"
)

type entryQueries interface {
	GetStorageEntry(ctx context.Context, namespace, key string) (db.StorageEntry, error)
	UpsertStorageEntry(ctx context.Context, arg db.UpsertStorageEntryParams) error
	DeleteStorageEntry(ctx context.Context, namespace, key string) (int64, error)
	DeleteStorageEntriesWithPrefix(ctx context.Context, namespace, prefix string) (int64, error)
	ListStorageKeys(ctx context.Context, namespace string) ([]string, error)
}

// SQLBackend stores durable values in the storage_entries table.
type SQLBackend struct {
	queries entryQueries
	now     func() time.Time
}

// NewSQLBackend queries the table once so a broken database is detected at startup
// rather than on the first write.
func NewSQLBackend(ctx context.Context, queries entryQueries) (*SQLBackend, error) {
	if queries == nil {
		return nil, errors.New("storage queries are nil")
	}
	if _, err := queries.ListStorageKeys(ctx, ""); err != nil {
		return nil, err
	}
	return &SQLBackend{queries: queries, now: time.Now}, nil
}

func (b *SQLBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	entry, err := b.queries.GetStorageEntry(ctx, namespace, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (b *SQLBackend) Set(ctx context.Context, namespace, key, value string) error {
	return b.queries.UpsertStorageEntry(ctx, db.UpsertStorageEntryParams{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: b.now(),
	})
}

func (b *SQLBackend) Remove(ctx context.Context, namespace, key string) error {
	_, err := b.queries.DeleteStorageEntry(ctx, namespace, key)
	return err
}

func (b *SQLBackend) ClearPrefix(ctx context.Context, namespace, prefix string) error {
	_, err := b.queries.DeleteStorageEntriesWithPrefix(ctx, namespace, prefix)
	return err
}

func (b *SQLBackend) Keys(ctx context.Context, namespace string) ([]string, error) {
	return b.queries.ListStorageKeys(ctx, namespace)
}
