package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

type tenantRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *tenantRepo) CreateApp(ctx context.Context, app multitenancy.AppIdentifier, createdAt int64) error {
	existing, err := r.GetApp(ctx, app)
	if err != nil {
		return err
	}
	if existing != nil {
		return multitenancy.ErrDuplicateApp
	}

	query := r.s.q(`INSERT INTO apps (app_id, created_at_time) VALUES (?, ?)`)
	if _, err := r.h.ExecContext(ctx, query, app.AppID, createdAt); err != nil {
		return r.s.mapInsertErr("insert app", err)
	}
	return nil
}

func (r *tenantRepo) GetApp(ctx context.Context, app multitenancy.AppIdentifier) (*multitenancy.App, error) {
	query := r.s.q(`SELECT app_id, created_at_time FROM apps WHERE app_id = ?`)

	out := &multitenancy.App{}
	err := r.h.QueryRowContext(ctx, query, app.AppID).Scan(&out.AppID, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan app: %w", err)
	}
	return out, nil
}

func (r *tenantRepo) CreateTenant(ctx context.Context, tenant multitenancy.TenantIdentifier, cfg multitenancy.Tenant) error {
	app, err := r.GetApp(ctx, tenant.ToAppIdentifier())
	if err != nil {
		return err
	}
	if app == nil {
		return multitenancy.ErrAppNotFound
	}

	existing, err := r.GetTenant(ctx, tenant)
	if err != nil {
		return err
	}
	if existing != nil {
		return multitenancy.ErrDuplicateTenant
	}

	query := r.s.q(`INSERT INTO tenants (app_id, tenant_id, email_password_enabled, passwordless_enabled, third_party_enabled, created_at_time)
		VALUES (?, ?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, cfg.EmailPasswordEnabled, cfg.PasswordlessEnabled, cfg.ThirdPartyEnabled, cfg.CreatedAt); err != nil {
		return r.s.mapInsertErr("insert tenant", err)
	}

	return r.replaceFirstFactors(ctx, tenant, cfg.FirstFactors)
}

func (r *tenantRepo) UpdateTenant(ctx context.Context, tenant multitenancy.TenantIdentifier, cfg multitenancy.Tenant) (bool, error) {
	query := r.s.q(`UPDATE tenants SET email_password_enabled = ?, passwordless_enabled = ?, third_party_enabled = ?
		WHERE app_id = ? AND tenant_id = ?`)

	res, err := r.h.ExecContext(ctx, query, cfg.EmailPasswordEnabled, cfg.PasswordlessEnabled, cfg.ThirdPartyEnabled, tenant.AppID, tenant.TenantID)
	if err != nil {
		return false, fmt.Errorf("update tenant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update tenant: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	return true, r.replaceFirstFactors(ctx, tenant, cfg.FirstFactors)
}

func (r *tenantRepo) replaceFirstFactors(ctx context.Context, tenant multitenancy.TenantIdentifier, factors []string) error {
	query := r.s.q(`DELETE FROM tenant_first_factors WHERE app_id = ? AND tenant_id = ?`)
	if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID); err != nil {
		return fmt.Errorf("clear first factors: %w", err)
	}

	query = r.s.q(`INSERT INTO tenant_first_factors (app_id, tenant_id, factor_id) VALUES (?, ?, ?)`)
	for _, factor := range factors {
		if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, factor); err != nil {
			return r.s.mapInsertErr("insert first factor", err)
		}
	}
	return nil
}

func (r *tenantRepo) GetTenant(ctx context.Context, tenant multitenancy.TenantIdentifier) (*multitenancy.Tenant, error) {
	query := r.s.q(`SELECT tenant_id, email_password_enabled, passwordless_enabled, third_party_enabled, created_at_time
		FROM tenants WHERE app_id = ? AND tenant_id = ?`)

	out := &multitenancy.Tenant{}
	err := r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID).
		Scan(&out.TenantID, &out.EmailPasswordEnabled, &out.PasswordlessEnabled, &out.ThirdPartyEnabled, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}

	out.FirstFactors, err = r.firstFactors(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tenantRepo) firstFactors(ctx context.Context, tenant multitenancy.TenantIdentifier) ([]string, error) {
	query := r.s.q(`SELECT factor_id FROM tenant_first_factors
		WHERE app_id = ? AND tenant_id = ? ORDER BY factor_id ASC`)

	rows, err := r.h.QueryContext(ctx, query, tenant.AppID, tenant.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list first factors: %w", err)
	}
	defer rows.Close()

	var factors []string
	for rows.Next() {
		var factor string
		if err := rows.Scan(&factor); err != nil {
			return nil, fmt.Errorf("scan first factor: %w", err)
		}
		factors = append(factors, factor)
	}
	return factors, rows.Err()
}

func (r *tenantRepo) ListTenantsForApp(ctx context.Context, app multitenancy.AppIdentifier) ([]multitenancy.Tenant, error) {
	query := r.s.q(`SELECT tenant_id, email_password_enabled, passwordless_enabled, third_party_enabled, created_at_time
		FROM tenants WHERE app_id = ? ORDER BY created_at_time ASC`)

	rows, err := r.h.QueryContext(ctx, query, app.AppID)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []multitenancy.Tenant
	for rows.Next() {
		var tenant multitenancy.Tenant
		if err := rows.Scan(&tenant.TenantID, &tenant.EmailPasswordEnabled, &tenant.PasswordlessEnabled, &tenant.ThirdPartyEnabled, &tenant.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tenants {
		tenants[i].FirstFactors, err = r.firstFactors(ctx, app.WithTenant(tenants[i].TenantID))
		if err != nil {
			return nil, err
		}
	}
	return tenants, nil
}
