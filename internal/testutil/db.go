// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/codr1/wfxconsole/internal/db"
)

// NewTestDB opens a migrated SQLite database in the test's temp dir. It is
// closed when the test ends.
func NewTestDB(t testing.TB) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	// One connection keeps writes from concurrent handler tests serialised.
	database.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// NewTestQueries is NewTestDB for callers that only need the queries.
func NewTestQueries(t testing.TB) *db.Queries {
	t.Helper()
	return NewTestDB(t).Queries
}
