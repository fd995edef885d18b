package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dashboard"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/emailpassword"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/passwordless"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/thirdparty"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/totp"
)

// DefaultMaxRetries bounds the transaction engine's retry loop for
// transient conflicts.
const DefaultMaxRetries = 3

// Store implements the storage contract over one *sql.DB and a Dialect.
// One Store serves one connection-URI domain; routing between domains
// happens above this layer.
type Store struct {
	db         *sql.DB
	dialect    Dialect
	maxRetries int

	mu     sync.Mutex
	tables []Table
}

// New wraps db with the given dialect. maxRetries <= 0 selects
// DefaultMaxRetries.
func New(db *sql.DB, dialect Dialect, maxRetries int) *Store {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Store{db: db, dialect: dialect, maxRetries: maxRetries}
}

func (s *Store) Kind() storage.Kind { return s.dialect.Kind() }

func (s *Store) RunMigrations(ctx context.Context) error {
	if err := s.dialect.Migrate(ctx, s.db); err != nil {
		return fmt.Errorf("run %s migrations: %w", s.dialect.Kind(), err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// handle resolves a nil handle to the autocommit connection.
func (s *Store) handle(h dbx.DBTX) dbx.DBTX {
	if h == nil {
		return s.db
	}
	return h
}

// q rebinds a '?' query for the active dialect.
func (s *Store) q(query string) string { return s.dialect.Rebind(query) }

// mapInsertErr classifies an insert failure. A native unique violation at
// this point means the ordered checks passed but a concurrent writer won;
// it is surfaced as a transient conflict so the transaction engine
// re-runs the unit of work and the checks report the right typed error.
func (s *Store) mapInsertErr(op string, err error) error {
	if s.dialect.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTxConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) Tenants(h dbx.DBTX) multitenancy.Repository {
	return &tenantRepo{s: s, h: s.handle(h)}
}

func (s *Store) DashboardUsers(h dbx.DBTX) dashboard.UserRepository {
	return &dashboardUserRepo{s: s, h: s.handle(h)}
}

func (s *Store) DashboardSessions(h dbx.DBTX) dashboard.SessionRepository {
	return &dashboardSessionRepo{s: s, h: s.handle(h)}
}

func (s *Store) EmailPasswordUsers(h dbx.DBTX) emailpassword.UserRepository {
	return &emailPasswordUserRepo{s: s, h: s.handle(h)}
}

func (s *Store) PasswordResetTokens(h dbx.DBTX) emailpassword.ResetTokenRepository {
	return &resetTokenRepo{s: s, h: s.handle(h)}
}

func (s *Store) PasswordlessDevices(h dbx.DBTX) passwordless.DeviceRepository {
	return &passwordlessDeviceRepo{s: s, h: s.handle(h)}
}

func (s *Store) PasswordlessCodes(h dbx.DBTX) passwordless.CodeRepository {
	return &passwordlessCodeRepo{s: s, h: s.handle(h)}
}

func (s *Store) ThirdPartyUsers(h dbx.DBTX) thirdparty.UserRepository {
	return &thirdPartyUserRepo{s: s, h: s.handle(h)}
}

func (s *Store) TotpDevices(h dbx.DBTX) totp.DeviceRepository {
	return &totpDeviceRepo{s: s, h: s.handle(h)}
}

var _ storage.Storage = (*Store)(nil)
var _ multitenancy.AppDataStore = (*Store)(nil)
