package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dashboard"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlite"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlstore"
)

// newTestStore opens an in-memory sqlite store with migrations applied.
func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	store, err := sqlite.Open(sqlite.MemoryPath, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.RunMigrations(context.Background()))
	return store
}

func mustCreateDashboardUser(t *testing.T, store *sqlstore.Store, app multitenancy.AppIdentifier, user dashboard.User) {
	t.Helper()
	err := store.RunInTransaction(context.Background(), func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardUsers(h).Create(ctx, app, user)
	})
	require.NoError(t, err)
}

func TestRunInTransaction_BusinessErrorRollsBackWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	app := multitenancy.NewAppIdentifier("", "")

	sentinel := errors.New("validation failed downstream")

	err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		user := dashboard.User{UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100}
		if err := store.DashboardUsers(h).Create(ctx, app, user); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// The insert must not have survived the rollback.
	got, err := store.DashboardUsers(nil).GetByUserID(ctx, app, "u1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDashboardUserCreate_ConflictOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	app := multitenancy.NewAppIdentifier("", "")

	mustCreateDashboardUser(t, store, app, dashboard.User{
		UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100,
	})

	// Same user id AND same email: the user id conflict must win.
	err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardUsers(h).Create(ctx, app, dashboard.User{
			UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 200,
		})
	})
	require.ErrorIs(t, err, dashboard.ErrDuplicateUserID)

	// Fresh user id, taken email.
	err = store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardUsers(h).Create(ctx, app, dashboard.User{
			UserID: "u2", Email: "a@example.com", PasswordHash: "h", TimeJoined: 200,
		})
	})
	require.ErrorIs(t, err, dashboard.ErrDuplicateEmail)
}

func TestDashboardUserCreate_SameEmailDifferentApps(t *testing.T) {
	store := newTestStore(t)
	app1 := multitenancy.NewAppIdentifier("", "app1")
	app2 := multitenancy.NewAppIdentifier("", "app2")

	mustCreateDashboardUser(t, store, app1, dashboard.User{
		UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100,
	})
	mustCreateDashboardUser(t, store, app2, dashboard.User{
		UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100,
	})

	got, err := store.DashboardUsers(nil).GetByEmail(context.Background(), app2, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestDashboardUserUpdateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	app := multitenancy.NewAppIdentifier("", "")

	mustCreateDashboardUser(t, store, app, dashboard.User{UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100})
	mustCreateDashboardUser(t, store, app, dashboard.User{UserID: "u2", Email: "b@example.com", PasswordHash: "h", TimeJoined: 200})

	err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardUsers(h).UpdateEmail(ctx, app, "ghost", "c@example.com")
	})
	require.ErrorIs(t, err, dashboard.ErrUserIDNotFound)

	err = store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardUsers(h).UpdateEmail(ctx, app, "u1", "b@example.com")
	})
	require.ErrorIs(t, err, dashboard.ErrDuplicateEmail)

	// Updating to the user's own current email is a no-op, not a conflict.
	err = store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardUsers(h).UpdateEmail(ctx, app, "u1", "a@example.com")
	})
	require.NoError(t, err)

	err = store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardUsers(h).UpdateEmail(ctx, app, "u1", "c@example.com")
	})
	require.NoError(t, err)

	got, err := store.DashboardUsers(nil).GetByUserID(ctx, app, "u1")
	require.NoError(t, err)
	require.Equal(t, "c@example.com", got.Email)
}

func TestDashboardUserGetAll_CreationOrder(t *testing.T) {
	store := newTestStore(t)
	app := multitenancy.NewAppIdentifier("", "")

	mustCreateDashboardUser(t, store, app, dashboard.User{UserID: "u3", Email: "c@example.com", PasswordHash: "h", TimeJoined: 300})
	mustCreateDashboardUser(t, store, app, dashboard.User{UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100})
	mustCreateDashboardUser(t, store, app, dashboard.User{UserID: "u2", Email: "b@example.com", PasswordHash: "h", TimeJoined: 200})

	users, err := store.DashboardUsers(nil).GetAll(context.Background(), app)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "u1", users[0].UserID)
	require.Equal(t, "u2", users[1].UserID)
	require.Equal(t, "u3", users[2].UserID)
}

func TestDashboardSessions_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	app := multitenancy.NewAppIdentifier("", "")

	mustCreateDashboardUser(t, store, app, dashboard.User{UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100})

	// A session for an unknown user must be refused.
	err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardSessions(h).Create(ctx, app, dashboard.SessionInfo{
			SessionID: "s0", UserID: "ghost", TimeCreated: 100, Expiry: 1000,
		})
	})
	require.ErrorIs(t, err, dashboard.ErrUserIDNotFound)

	for _, s := range []dashboard.SessionInfo{
		{SessionID: "s2", UserID: "u1", TimeCreated: 200, Expiry: 2000},
		{SessionID: "s1", UserID: "u1", TimeCreated: 100, Expiry: 1000},
	} {
		s := s
		err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
			return store.DashboardSessions(h).Create(ctx, app, s)
		})
		require.NoError(t, err)
	}

	// Duplicate session id.
	err = store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardSessions(h).Create(ctx, app, dashboard.SessionInfo{
			SessionID: "s1", UserID: "u1", TimeCreated: 300, Expiry: 3000,
		})
	})
	require.ErrorIs(t, err, dashboard.ErrDuplicateSessionID)

	// Listed in creation order.
	sessions, err := store.DashboardSessions(nil).GetAllForUser(ctx, app, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "s1", sessions[0].SessionID)
	require.Equal(t, "s2", sessions[1].SessionID)

	// Revoke is idempotent: existing then absent.
	existed, err := store.DashboardSessions(nil).Revoke(ctx, app, "s1")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = store.DashboardSessions(nil).Revoke(ctx, app, "s1")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestDashboardSessions_SweepExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	app1 := multitenancy.NewAppIdentifier("", "app1")
	app2 := multitenancy.NewAppIdentifier("", "app2")

	mustCreateDashboardUser(t, store, app1, dashboard.User{UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100})
	mustCreateDashboardUser(t, store, app2, dashboard.User{UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100})

	create := func(app multitenancy.AppIdentifier, id string, expiry int64) {
		err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
			return store.DashboardSessions(h).Create(ctx, app, dashboard.SessionInfo{
				SessionID: id, UserID: "u1", TimeCreated: 100, Expiry: expiry,
			})
		})
		require.NoError(t, err)
	}

	create(app1, "old1", 500)
	create(app1, "live1", 5000)
	create(app2, "old2", 400)

	// The sweep crosses app boundaries and removes rows at or before now.
	removed, err := store.DashboardSessions(nil).SweepExpired(ctx, 500)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	remaining, err := store.DashboardSessions(nil).GetAllForUser(ctx, app1, "u1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "live1", remaining[0].SessionID)

	// Sweeping again finds nothing.
	removed, err = store.DashboardSessions(nil).SweepExpired(ctx, 500)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestDashboardUserDelete_RemovesSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	app := multitenancy.NewAppIdentifier("", "")

	mustCreateDashboardUser(t, store, app, dashboard.User{UserID: "u1", Email: "a@example.com", PasswordHash: "h", TimeJoined: 100})

	err := store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return store.DashboardSessions(h).Create(ctx, app, dashboard.SessionInfo{
			SessionID: "s1", UserID: "u1", TimeCreated: 100, Expiry: 1000,
		})
	})
	require.NoError(t, err)

	var existed bool
	err = store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		var err error
		existed, err = store.DashboardUsers(h).Delete(ctx, app, "u1")
		return err
	})
	require.NoError(t, err)
	require.True(t, existed)

	sessions, err := store.DashboardSessions(nil).GetAllForUser(ctx, app, "u1")
	require.NoError(t, err)
	require.Empty(t, sessions)

	// Deleting again reports that no user existed.
	err = store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		var err error
		existed, err = store.DashboardUsers(h).Delete(ctx, app, "u1")
		return err
	})
	require.NoError(t, err)
	require.False(t, existed)
}
