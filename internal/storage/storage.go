// Package storage defines the contract every backing-store driver
// implements: transaction control, per-recipe repository access keyed by
// the identifier hierarchy, and the schema introspection that drives
// cascade delete.
package storage

import (
	"context"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dashboard"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/emailpassword"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/passwordless"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/thirdparty"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/totp"
)

// Kind names a backing-store driver.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// Storage is the pluggable driver contract. Repository accessors take a
// transaction handle; passing nil binds the repository to the autocommit
// connection. Operations documented as "must run inside a transaction"
// expect the handle obtained from RunInTransaction.
type Storage interface {
	Kind() Kind
	RunMigrations(ctx context.Context) error
	Close() error

	// RunInTransaction executes fn as one atomic unit of work. Transient
	// backend conflicts roll back and retry fn from the start, up to a
	// configured bound; fn must therefore be free of side effects outside
	// the transaction. Business errors returned by fn roll back and
	// propagate unchanged. If the context already carries an open
	// transaction, fn joins it and only the outermost call commits.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) error

	// Schema introspection and scoped deletes; see multitenancy.AppDataStore.
	ListScopedTables(ctx context.Context) ([]string, error)
	ListTablesWithDataForApp(ctx context.Context, app multitenancy.AppIdentifier) ([]string, error)
	DeleteAppData(ctx context.Context, h dbx.DBTX, table string, app multitenancy.AppIdentifier) error
	DeleteTenantData(ctx context.Context, h dbx.DBTX, table string, tenant multitenancy.TenantIdentifier) error

	Tenants(h dbx.DBTX) multitenancy.Repository
	DashboardUsers(h dbx.DBTX) dashboard.UserRepository
	DashboardSessions(h dbx.DBTX) dashboard.SessionRepository
	EmailPasswordUsers(h dbx.DBTX) emailpassword.UserRepository
	PasswordResetTokens(h dbx.DBTX) emailpassword.ResetTokenRepository
	PasswordlessDevices(h dbx.DBTX) passwordless.DeviceRepository
	PasswordlessCodes(h dbx.DBTX) passwordless.CodeRepository
	ThirdPartyUsers(h dbx.DBTX) thirdparty.UserRepository
	TotpDevices(h dbx.DBTX) totp.DeviceRepository
}
