// Package postgres provides the PostgreSQL storage driver, built on the
// pgx stdlib adapter with goose-managed migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/postgres/migrations"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlstore"
)

// Open connects to the database behind dsn and wraps it in a Store.
// Migrations are not run here; callers run Store.RunMigrations once at
// startup.
func Open(dsn string, maxRetries int) (*sqlstore.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	return sqlstore.New(db, Dialect{}, maxRetries), nil
}

// Dialect is the PostgreSQL half of the sqlstore driver.
type Dialect struct{}

func (Dialect) Kind() storage.Kind { return storage.KindPostgres }

// Rebind rewrites '?' placeholders to $1..$n.
func (Dialect) Rebind(query string) string {
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// IsRetryable reports serialization failures and deadlocks, which
// postgres asks clients to retry.
func (Dialect) IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return true
	}
	return false
}

func (Dialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ScopedTables enumerates tables in the current schema carrying an
// app_id column, noting which also carry tenant_id.
func (Dialect) ScopedTables(ctx context.Context, h dbx.DBTX) ([]sqlstore.Table, error) {
	query := `
		SELECT table_name,
		       BOOL_OR(column_name = 'tenant_id') AS tenant_scoped
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		GROUP BY table_name
		HAVING BOOL_OR(column_name = 'app_id')
		ORDER BY table_name`

	rows, err := h.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}
	defer rows.Close()

	var tables []sqlstore.Table
	for rows.Next() {
		var t sqlstore.Table
		if err := rows.Scan(&t.Name, &t.TenantScoped); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (Dialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}
