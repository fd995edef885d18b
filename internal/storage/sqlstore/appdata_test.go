package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dashboard"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/emailpassword"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/passwordless"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlstore"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/thirdparty"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/totp"
)

func TestListScopedTables_CoversWholeSchema(t *testing.T) {
	store := newTestStore(t)

	tables, err := store.ListScopedTables(context.Background())
	require.NoError(t, err)

	want := []string{
		"apps",
		"dashboard_user_sessions",
		"dashboard_users",
		"emailpassword_pswd_reset_tokens",
		"emailpassword_users",
		"passwordless_codes",
		"passwordless_devices",
		"tenant_first_factors",
		"tenants",
		"thirdparty_users",
		"totp_user_devices",
	}
	require.ElementsMatch(t, want, tables)
}

// populateTenant writes one row into every recipe table for the tenant
// (and its app) so cascade tests can assert completeness.
func populateTenant(t *testing.T, store *sqlstore.Store, tenant multitenancy.TenantIdentifier, suffix string) {
	t.Helper()
	ctx := context.Background()
	app := tenant.ToAppIdentifier()

	err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		if err := store.DashboardUsers(h).Create(ctx, app, dashboard.User{
			UserID: "du-" + suffix, Email: "d-" + suffix + "@example.com", PasswordHash: "h", TimeJoined: 100,
		}); err != nil {
			return err
		}
		if err := store.DashboardSessions(h).Create(ctx, app, dashboard.SessionInfo{
			SessionID: "ds-" + suffix, UserID: "du-" + suffix, TimeCreated: 100, Expiry: 100000,
		}); err != nil {
			return err
		}
		if err := store.EmailPasswordUsers(h).Create(ctx, tenant, emailpassword.User{
			UserID: "eu-" + suffix, Email: "e-" + suffix + "@example.com", PasswordHash: "h", TimeJoined: 100,
		}); err != nil {
			return err
		}
		if err := store.PasswordResetTokens(h).Create(ctx, app, emailpassword.ResetTokenInfo{
			UserID: "eu-" + suffix, TokenHash: "rt-" + suffix, Expiry: 100000,
		}); err != nil {
			return err
		}
		if err := store.PasswordlessDevices(h).Create(ctx, tenant, passwordless.Device{
			DeviceIDHash: "pd-" + suffix, Email: "p-" + suffix + "@example.com",
		}); err != nil {
			return err
		}
		if err := store.PasswordlessCodes(h).Create(ctx, tenant, passwordless.Code{
			CodeID: "pc-" + suffix, DeviceIDHash: "pd-" + suffix, LinkCodeHash: "pl-" + suffix, CreatedAt: 100, Expiry: 100000,
		}); err != nil {
			return err
		}
		if err := store.ThirdPartyUsers(h).Create(ctx, tenant, thirdparty.User{
			UserID: "tu-" + suffix, ThirdPartyID: "google", ThirdPartyUserID: "g-" + suffix,
			Email: "t-" + suffix + "@example.com", TimeJoined: 100,
		}); err != nil {
			return err
		}
		return store.TotpDevices(h).Create(ctx, app, totp.Device{
			UserID: "du-" + suffix, DeviceName: "dev-" + suffix, SecretKey: "k", Period: 30, Skew: 1, CreatedAt: 100,
		})
	})
	require.NoError(t, err)
}

func TestDeleteAllDataForApp_RemovesEverythingAndSparesSiblings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	app1 := multitenancy.NewAppIdentifier("", "app1")
	app2 := multitenancy.NewAppIdentifier("", "app2")
	populateTenant(t, store, app1.WithTenant(""), "a1")
	populateTenant(t, store, app2.WithTenant(""), "a2")

	require.NoError(t, multitenancy.DeleteAllDataForApp(ctx, store, app1))

	// No scoped table may still hold rows for the deleted app.
	withData, err := store.ListTablesWithDataForApp(ctx, app1)
	require.NoError(t, err)
	require.Empty(t, withData)

	// The sibling app is untouched.
	withData, err = store.ListTablesWithDataForApp(ctx, app2)
	require.NoError(t, err)
	require.NotEmpty(t, withData)

	user, err := store.DashboardUsers(nil).GetByUserID(ctx, app2, "du-a2")
	require.NoError(t, err)
	require.NotNil(t, user)
}

func TestDeleteAllDataForTenant_SparesAppScopedRowsAndSiblingTenants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	app := multitenancy.NewAppIdentifier("", "app1")
	t1 := app.WithTenant("t1")
	t2 := app.WithTenant("t2")
	populateTenant(t, store, t1, "t1")
	populateTenant(t, store, t2, "t2")

	require.NoError(t, multitenancy.DeleteAllDataForTenant(ctx, store, t1))

	// Tenant-scoped rows for t1 are gone.
	epUser, err := store.EmailPasswordUsers(nil).GetByUserID(ctx, t1, "eu-t1")
	require.NoError(t, err)
	require.Nil(t, epUser)

	device, err := store.PasswordlessDevices(nil).GetByDeviceIDHash(ctx, t1, "pd-t1")
	require.NoError(t, err)
	require.Nil(t, device)

	tpUser, err := store.ThirdPartyUsers(nil).GetByThirdParty(ctx, t1, "google", "g-t1")
	require.NoError(t, err)
	require.Nil(t, tpUser)

	// Sibling tenant rows survive.
	epUser, err = store.EmailPasswordUsers(nil).GetByUserID(ctx, t2, "eu-t2")
	require.NoError(t, err)
	require.NotNil(t, epUser)

	// App-scoped rows survive a tenant delete.
	dashUser, err := store.DashboardUsers(nil).GetByUserID(ctx, app, "du-t1")
	require.NoError(t, err)
	require.NotNil(t, dashUser)

	tokens, err := store.PasswordResetTokens(nil).GetAllForUser(ctx, app, "eu-t1")
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	devices, err := store.TotpDevices(nil).GetAllForUser(ctx, app, "du-t1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
}
