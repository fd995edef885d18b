package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

// scopedTables returns the introspected table set, cached after the first
// call. The schema is fixed once migrations have run, so the cache never
// needs invalidation within a process.
func (s *Store) scopedTables(ctx context.Context) ([]Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables != nil {
		return s.tables, nil
	}

	tables, err := s.dialect.ScopedTables(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("introspect scoped tables: %w", err)
	}
	s.tables = tables
	return tables, nil
}

func (s *Store) lookupTable(ctx context.Context, name string) (Table, error) {
	tables, err := s.scopedTables(ctx)
	if err != nil {
		return Table{}, err
	}
	for _, t := range tables {
		if t.Name == name {
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("unknown scoped table %q", name)
}

// ListScopedTables returns the names of every table keyed by app_id.
func (s *Store) ListScopedTables(ctx context.Context) ([]string, error) {
	tables, err := s.scopedTables(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names, nil
}

// ListTablesWithDataForApp returns the scoped tables holding at least one
// row for the app. After an app cascade delete commits this is empty.
func (s *Store) ListTablesWithDataForApp(ctx context.Context, app multitenancy.AppIdentifier) ([]string, error) {
	tables, err := s.scopedTables(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tables))
	for _, t := range tables {
		query := s.q(fmt.Sprintf(`SELECT 1 FROM %q WHERE app_id = ? LIMIT 1`, t.Name))

		var one int
		err := s.db.QueryRowContext(ctx, query, app.AppID).Scan(&one)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			continue
		case err != nil:
			return nil, fmt.Errorf("check data in %s: %w", t.Name, err)
		}
		names = append(names, t.Name)
	}
	return names, nil
}

// DeleteAppData removes every row in table scoped to the app. The table
// name must come from ListScopedTables.
func (s *Store) DeleteAppData(ctx context.Context, h dbx.DBTX, table string, app multitenancy.AppIdentifier) error {
	t, err := s.lookupTable(ctx, table)
	if err != nil {
		return err
	}

	query := s.q(fmt.Sprintf(`DELETE FROM %q WHERE app_id = ?`, t.Name))
	if _, err := s.handle(h).ExecContext(ctx, query, app.AppID); err != nil {
		return fmt.Errorf("delete app rows: %w", err)
	}
	return nil
}

// DeleteTenantData removes every row in table scoped to the tenant.
// App-level-only tables are left untouched.
func (s *Store) DeleteTenantData(ctx context.Context, h dbx.DBTX, table string, tenant multitenancy.TenantIdentifier) error {
	t, err := s.lookupTable(ctx, table)
	if err != nil {
		return err
	}
	if !t.TenantScoped {
		return nil
	}

	query := s.q(fmt.Sprintf(`DELETE FROM %q WHERE app_id = ? AND tenant_id = ?`, t.Name))
	if _, err := s.handle(h).ExecContext(ctx, query, tenant.AppID, tenant.TenantID); err != nil {
		return fmt.Errorf("delete tenant rows: %w", err)
	}
	return nil
}
