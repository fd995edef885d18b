package multitenancy

// App is a registered app. Creation time is unix millis, matching how all
// timestamps are persisted.
type App struct {
	AppID     string
	CreatedAt int64
}

// Tenant is a registered tenant together with its per-tenant configuration
// (which recipes are enabled and which first factors are allowed).
type Tenant struct {
	TenantID             string
	EmailPasswordEnabled bool
	PasswordlessEnabled  bool
	ThirdPartyEnabled    bool
	FirstFactors         []string
	CreatedAt            int64
}
