package multitenancy

import (
	"context"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
)

// AppDataStore is the slice of the storage contract the cascade-delete
// subsystem needs: transaction control, schema introspection, and the
// scoped-delete primitives.
type AppDataStore interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) error

	// ListScopedTables returns every table carrying an app_id column.
	ListScopedTables(ctx context.Context) ([]string, error)

	// ListTablesWithDataForApp returns the subset of scoped tables that
	// currently hold at least one row for the app.
	ListTablesWithDataForApp(ctx context.Context, app AppIdentifier) ([]string, error)

	// DeleteAppData removes every row in table scoped to the app.
	DeleteAppData(ctx context.Context, h dbx.DBTX, table string, app AppIdentifier) error

	// DeleteTenantData removes every row in table scoped to the tenant.
	// Tables without a tenant_id column (app-level-only data) are left
	// untouched.
	DeleteTenantData(ctx context.Context, h dbx.DBTX, table string, tenant TenantIdentifier) error
}

// DeleteAllDataForApp removes every row scoped to the app, across every
// scoped table, in one transaction. Table order is unconstrained: deletes
// are scoped purely by identifier and the storage layer enforces no
// inter-table foreign keys, so referential cleanup happens by scope
// rather than by dependency ordering. Once committed,
// ListTablesWithDataForApp for this app is empty.
func DeleteAllDataForApp(ctx context.Context, st AppDataStore, app AppIdentifier) error {
	tables, err := st.ListScopedTables(ctx)
	if err != nil {
		return fmt.Errorf("list scoped tables: %w", err)
	}

	return st.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		for _, table := range tables {
			if err := st.DeleteAppData(ctx, h, table, app); err != nil {
				return fmt.Errorf("delete app data from %s: %w", table, err)
			}
		}
		return nil
	})
}

// DeleteAllDataForTenant removes every tenant-scoped row for the tenant in
// one transaction. App-level-only tables (dashboard users, TOTP devices)
// survive, as do sibling tenants under the same app.
func DeleteAllDataForTenant(ctx context.Context, st AppDataStore, tenant TenantIdentifier) error {
	tables, err := st.ListScopedTables(ctx)
	if err != nil {
		return fmt.Errorf("list scoped tables: %w", err)
	}

	return st.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		for _, table := range tables {
			if err := st.DeleteTenantData(ctx, h, table, tenant); err != nil {
				return fmt.Errorf("delete tenant data from %s: %w", table, err)
			}
		}
		return nil
	})
}
