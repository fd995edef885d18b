// Package multitenancy defines the identifier hierarchy that scopes every
// stored row (connection domain -> app -> tenant), the app/tenant registry,
// and the cascade-delete subsystem that removes all data for one scope.
package multitenancy

// DefaultAppID is the app every deployment starts with.
const DefaultAppID = "public"

// DefaultTenantID is the tenant every app starts with.
const DefaultTenantID = "public"

// AppIdentifier names the outermost data-isolation boundary. The connection
// URI domain groups apps that share a physical backing store; an empty
// domain is the default store. Identifiers are plain value types: equality
// is structural and they are usable as map keys.
type AppIdentifier struct {
	ConnectionURIDomain string
	AppID               string
}

// NewAppIdentifier normalises empty app ids to the default app.
func NewAppIdentifier(connectionURIDomain, appID string) AppIdentifier {
	if appID == "" {
		appID = DefaultAppID
	}
	return AppIdentifier{ConnectionURIDomain: connectionURIDomain, AppID: appID}
}

// WithTenant scopes the app identifier down to one tenant.
func (a AppIdentifier) WithTenant(tenantID string) TenantIdentifier {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	return TenantIdentifier{
		ConnectionURIDomain: a.ConnectionURIDomain,
		AppID:               a.AppID,
		TenantID:            tenantID,
	}
}

// TenantIdentifier scopes rows to one tenant under an app. It inherits the
// app's isolation guarantees and adds tenant-specific configuration scope.
type TenantIdentifier struct {
	ConnectionURIDomain string
	AppID               string
	TenantID            string
}

// NewTenantIdentifier normalises empty app/tenant ids to the defaults.
func NewTenantIdentifier(connectionURIDomain, appID, tenantID string) TenantIdentifier {
	return NewAppIdentifier(connectionURIDomain, appID).WithTenant(tenantID)
}

// ToAppIdentifier drops the tenant component. Used when an operation is
// app-scoped rather than tenant-scoped (dashboard users, TOTP devices).
func (t TenantIdentifier) ToAppIdentifier() AppIdentifier {
	return AppIdentifier{ConnectionURIDomain: t.ConnectionURIDomain, AppID: t.AppID}
}
