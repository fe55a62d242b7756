package db

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

type StorageEntry struct {
	Namespace string
	Key       string
	Value     string
	UpdatedAt time.Time
}

const getStorageEntry = `
SELECT namespace, key, value, updated_at FROM storage_entries
WHERE namespace = ? AND key = ?
`

func (q *Queries) GetStorageEntry(ctx context.Context, namespace, key string) (StorageEntry, error) {
	row := q.db.QueryRowContext(ctx, getStorageEntry, namespace, key)
	var entry StorageEntry
	err := row.Scan(&entry.Namespace, &entry.Key, &entry.Value, &entry.UpdatedAt)
	return entry, err
}

const upsertStorageEntry = `
INSERT INTO storage_entries (namespace, key, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

type UpsertStorageEntryParams struct {
	Namespace string
	Key       string
	Value     string
	UpdatedAt time.Time
}

func (q *Queries) UpsertStorageEntry(ctx context.Context, arg UpsertStorageEntryParams) error {
	_, err := q.db.ExecContext(ctx, upsertStorageEntry, arg.Namespace, arg.Key, arg.Value, arg.UpdatedAt.UTC())
	return err
}

const deleteStorageEntry = `
DELETE FROM storage_entries WHERE namespace = ? AND key = ?
`

func (q *Queries) DeleteStorageEntry(ctx context.Context, namespace, key string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteStorageEntry, namespace, key)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteStorageEntriesWithPrefix = `
DELETE FROM storage_entries WHERE namespace = ? AND substr(key, 1, length(?)) = ?
`

// DeleteStorageEntriesWithPrefix removes every key in namespace starting with prefix.
func (q *Queries) DeleteStorageEntriesWithPrefix(ctx context.Context, namespace, prefix string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteStorageEntriesWithPrefix, namespace, prefix, prefix)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listStorageKeys = `
SELECT key FROM storage_entries WHERE namespace = ? ORDER BY key
`

func (q *Queries) ListStorageKeys(ctx context.Context, namespace string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listStorageKeys, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         string
	Status       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `id, email, first_name, last_name, role, status, password_hash, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (User, error) {
	var u User
	err := scanner.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

type ListUsersParams struct {
	Search string
	Role   string
	Status string
	Limit  int64
	Offset int64
}

func userFilter(arg ListUsersParams) (string, []any) {
	var clauses []string
	var args []any
	if search := strings.TrimSpace(arg.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		clauses = append(clauses, "(lower(email) LIKE ? OR lower(first_name) LIKE ? OR lower(last_name) LIKE ?)")
		args = append(args, like, like, like)
	}
	if arg.Role != "" {
		clauses = append(clauses, "role = ?")
		args = append(args, arg.Role)
	}
	if arg.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, arg.Status)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	where, args := userFilter(arg)
	query := "SELECT " + userColumns + " FROM users" + where + " ORDER BY created_at, id LIMIT ? OFFSET ?"
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *Queries) CountUsers(ctx context.Context, arg ListUsersParams) (int64, error) {
	where, args := userFilter(arg)
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&count)
	return count, err
}

func (q *Queries) GetUser(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByEmail matches email exactly, ignoring case.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE lower(email) = ?", strings.ToLower(email)))
}

func (q *Queries) CreateUser(ctx context.Context, u User) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Email, u.FirstName, u.LastName, u.Role, u.Status, u.PasswordHash, u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return err
}

const updateUser = `
UPDATE users SET first_name = ?, last_name = ?, role = ?, status = ?, updated_at = ?
WHERE id = ?
`

func (q *Queries) UpdateUser(ctx context.Context, u User) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUser, u.FirstName, u.LastName, u.Role, u.Status, u.UpdatedAt.UTC(), u.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) DeleteUser(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
