package multitenancy

import "context"

// Repository persists the app/tenant registry. Lookups return (nil, nil)
// when the row is absent; absence is never an error.
type Repository interface {
	// CreateApp registers a new app (and nothing else; the default tenant
	// is created by the caller). Returns ErrDuplicateApp when the app id
	// is already taken within the connection domain.
	CreateApp(ctx context.Context, app AppIdentifier, createdAt int64) error

	GetApp(ctx context.Context, app AppIdentifier) (*App, error)

	// CreateTenant registers a tenant under an existing app. Returns
	// ErrAppNotFound when the app does not exist and ErrDuplicateTenant
	// when the tenant id is taken, in that order.
	CreateTenant(ctx context.Context, tenant TenantIdentifier, cfg Tenant) error

	// UpdateTenant overwrites the tenant's configuration. Reports whether
	// a tenant row existed.
	UpdateTenant(ctx context.Context, tenant TenantIdentifier, cfg Tenant) (bool, error)

	GetTenant(ctx context.Context, tenant TenantIdentifier) (*Tenant, error)

	// ListTenantsForApp returns tenants in creation order.
	ListTenantsForApp(ctx context.Context, app AppIdentifier) ([]Tenant, error)
}
