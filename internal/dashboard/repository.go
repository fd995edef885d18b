package dashboard

import (
	"context"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

// UserRepository persists dashboard users. Dashboard users are app-scoped:
// they survive deletion of any one tenant under their app. Lookups return
// (nil, nil) when the row is absent.
//
// Create and UpdateEmail enforce uniqueness rules in declaration order
// (user id before email) and must run inside a transaction so the checks
// and the write are atomic.
type UserRepository interface {
	Create(ctx context.Context, app multitenancy.AppIdentifier, user User) error
	GetByUserID(ctx context.Context, app multitenancy.AppIdentifier, userID string) (*User, error)
	GetByEmail(ctx context.Context, app multitenancy.AppIdentifier, email string) (*User, error)

	// GetAll returns the app's users ordered by creation time ascending.
	GetAll(ctx context.Context, app multitenancy.AppIdentifier) ([]User, error)

	// UpdateEmail returns ErrUserIDNotFound or ErrDuplicateEmail.
	UpdateEmail(ctx context.Context, app multitenancy.AppIdentifier, userID, email string) error

	// UpdatePasswordHash returns ErrUserIDNotFound when the user is absent.
	UpdatePasswordHash(ctx context.Context, app multitenancy.AppIdentifier, userID, passwordHash string) error

	// Delete removes the user and all their sessions. Reports whether a
	// user row existed.
	Delete(ctx context.Context, app multitenancy.AppIdentifier, userID string) (bool, error)
}

// SessionRepository persists dashboard sessions.
type SessionRepository interface {
	// Create returns ErrUserIDNotFound when the owning user does not
	// exist and ErrDuplicateSessionID on a session id collision, in that
	// order. Must run inside a transaction.
	Create(ctx context.Context, app multitenancy.AppIdentifier, session SessionInfo) error

	GetBySessionID(ctx context.Context, app multitenancy.AppIdentifier, sessionID string) (*SessionInfo, error)

	// GetAllForUser returns the user's sessions ordered by creation time
	// ascending. Entries past their expiry may still appear until swept.
	GetAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) ([]SessionInfo, error)

	// Revoke deletes by id and reports whether a row existed. Revoking an
	// absent session is not an error.
	Revoke(ctx context.Context, app multitenancy.AppIdentifier, sessionID string) (bool, error)

	// SweepExpired bulk-deletes every session, across all apps, whose
	// expiry is at or before now (millis). Safe to call repeatedly and
	// concurrently; returns the number of sessions removed.
	SweepExpired(ctx context.Context, now int64) (int64, error)
}
