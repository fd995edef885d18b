// Package sqlite provides the SQLite storage driver, backed by the
// cgo-free modernc.org/sqlite driver with goose-managed migrations. An
// empty or ":memory:" path yields an ephemeral in-process database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlite/migrations"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlstore"
)

// MemoryPath selects an ephemeral in-process database.
const MemoryPath = ":memory:"

// Open opens the database file at path and wraps it in a Store. The
// connection pool is capped at a single connection so that all callers
// share one sqlite handle; with MemoryPath anything else would hand
// each pooled connection its own empty database.
func Open(path string, maxRetries int) (*sqlstore.Store, error) {
	dsn := MemoryPath + "?_busy_timeout=5000&_foreign_keys=ON"
	if path != "" && path != MemoryPath {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlstore.New(db, Dialect{}, maxRetries), nil
}

// Dialect is the SQLite half of the sqlstore driver.
type Dialect struct{}

func (Dialect) Kind() storage.Kind { return storage.KindSQLite }

// Rebind is the identity; sqlite accepts '?' placeholders natively.
func (Dialect) Rebind(query string) string { return query }

// IsRetryable reports lock contention errors, which clear up once the
// competing transaction finishes.
func (Dialect) IsRetryable(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}

func (Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	// The driver occasionally surfaces the extended code only in the
	// message, so fall back to matching it.
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// ScopedTables enumerates user tables carrying an app_id column,
// noting which also carry tenant_id.
func (Dialect) ScopedTables(ctx context.Context, h dbx.DBTX) ([]sqlstore.Table, error) {
	rows, err := h.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name NOT LIKE 'goose_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query sqlite_master: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var tables []sqlstore.Table
	for _, name := range names {
		hasAppID, hasTenantID, err := tableColumns(ctx, h, name)
		if err != nil {
			return nil, err
		}
		if !hasAppID {
			continue
		}
		tables = append(tables, sqlstore.Table{Name: name, TenantScoped: hasTenantID})
	}
	return tables, nil
}

func tableColumns(ctx context.Context, h dbx.DBTX, table string) (hasAppID, hasTenantID bool, err error) {
	rows, err := h.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return false, false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dflt       sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &primaryKey); err != nil {
			return false, false, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		switch name {
		case "app_id":
			hasAppID = true
		case "tenant_id":
			hasTenantID = true
		}
	}
	return hasAppID, hasTenantID, rows.Err()
}

func (Dialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}
