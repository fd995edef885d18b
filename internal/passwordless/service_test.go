package passwordless_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/passwordless"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlite"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlstore"
)

func newService(t *testing.T, codeValidity time.Duration) (*passwordless.Service, *sqlstore.Store) {
	t.Helper()

	store, err := sqlite.Open(sqlite.MemoryPath, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.RunMigrations(context.Background()))

	return passwordless.NewService(store, codeValidity), store
}

func TestService_CreateAndConsumeCode(t *testing.T) {
	svc, store := newService(t, 15*time.Minute)
	ctx := context.Background()
	tenant := multitenancy.NewTenantIdentifier("", "", "")

	result, err := svc.CreateCode(ctx, tenant, "a@example.com", "")
	require.NoError(t, err)
	require.NotEmpty(t, result.DeviceIDHash)
	require.NotEmpty(t, result.Code.LinkCodeHash)

	device, err := svc.ConsumeCode(ctx, tenant, result.Code.LinkCodeHash)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", device.Email)

	// Consuming removed the device and its codes.
	gone, err := store.PasswordlessDevices(nil).GetByDeviceIDHash(ctx, tenant, result.DeviceIDHash)
	require.NoError(t, err)
	require.Nil(t, gone)

	_, err = svc.ConsumeCode(ctx, tenant, result.Code.LinkCodeHash)
	require.ErrorIs(t, err, passwordless.ErrRestartFlow)
}

func TestService_ConsumeExpiredCode(t *testing.T) {
	svc, _ := newService(t, -time.Minute)
	ctx := context.Background()
	tenant := multitenancy.NewTenantIdentifier("", "", "")

	result, err := svc.CreateCode(ctx, tenant, "", "+15551234567")
	require.NoError(t, err)

	_, err = svc.ConsumeCode(ctx, tenant, result.Code.LinkCodeHash)
	require.ErrorIs(t, err, passwordless.ErrRestartFlow)
}

func TestService_CodesAreTenantScoped(t *testing.T) {
	svc, _ := newService(t, 15*time.Minute)
	ctx := context.Background()
	t1 := multitenancy.NewTenantIdentifier("", "", "t1")
	t2 := multitenancy.NewTenantIdentifier("", "", "t2")

	result, err := svc.CreateCode(ctx, t1, "a@example.com", "")
	require.NoError(t, err)

	// The link code is useless in a sibling tenant.
	_, err = svc.ConsumeCode(ctx, t2, result.Code.LinkCodeHash)
	require.ErrorIs(t, err, passwordless.ErrRestartFlow)
}

func TestService_SweepExpiredCodes(t *testing.T) {
	svc, store := newService(t, -time.Minute)
	ctx := context.Background()
	tenant := multitenancy.NewTenantIdentifier("", "", "")

	result, err := svc.CreateCode(ctx, tenant, "a@example.com", "")
	require.NoError(t, err)

	removed, err := svc.SweepExpiredCodes(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	// The sweep removes codes, not devices; the device stays until its
	// flow is restarted or consumed.
	device, err := store.PasswordlessDevices(nil).GetByDeviceIDHash(ctx, tenant, result.DeviceIDHash)
	require.NoError(t, err)
	require.NotNil(t, device)
}

func TestHashID_DeterministicAndOpaque(t *testing.T) {
	t.Parallel()

	a := passwordless.HashID("device-1")
	b := passwordless.HashID("device-1")
	c := passwordless.HashID("device-2")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.NotContains(t, a, "device-1")
}
