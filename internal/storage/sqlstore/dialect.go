// Package sqlstore implements the storage contract over database/sql. The
// SQL itself is shared; everything engine-specific (placeholder style,
// conflict classification, schema introspection, migrations) sits behind
// the Dialect interface, with one dialect per supported engine.
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage"
)

// Table describes one scoped table discovered by introspection. Every
// scoped table carries an app_id column; TenantScoped reports whether it
// also carries tenant_id.
type Table struct {
	Name         string
	TenantScoped bool
}

// Dialect is the engine-specific part of a driver. A conforming engine
// must give check-and-insert atomicity inside one transaction; the
// classifier methods keep the three failure channels apart (business
// errors never reach them, transient conflicts are retried, everything
// else is fatal).
type Dialect interface {
	Kind() storage.Kind

	// Rebind converts '?' placeholders to the engine's native style.
	Rebind(query string) string

	// IsRetryable reports backend serialization/lock conflicts that carry
	// no business meaning and are safe to retry.
	IsRetryable(err error) bool

	// IsUniqueViolation reports a native unique-constraint failure. The
	// ordered checks run before every insert, so by the time the engine
	// rejects an insert this way a concurrent writer has won the race;
	// the store retries the unit of work and the re-run checks report the
	// correct typed error in declaration order.
	IsUniqueViolation(err error) bool

	// ScopedTables enumerates the tables carrying an app_id column.
	ScopedTables(ctx context.Context, h dbx.DBTX) ([]Table, error)

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context, db *sql.DB) error
}
