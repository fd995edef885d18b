package emailpassword

import (
	"context"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

// UserRepository persists email-password users. Users are tenant-scoped:
// the same email may exist in two tenants under one app, and in two apps.
// Lookups return (nil, nil) when absent. Create runs its uniqueness checks
// in declaration order (user id, then email) and must be called inside a
// transaction.
type UserRepository interface {
	Create(ctx context.Context, tenant multitenancy.TenantIdentifier, user User) error
	GetByUserID(ctx context.Context, tenant multitenancy.TenantIdentifier, userID string) (*User, error)
	GetByEmail(ctx context.Context, tenant multitenancy.TenantIdentifier, email string) (*User, error)
	UpdatePasswordHash(ctx context.Context, tenant multitenancy.TenantIdentifier, userID, passwordHash string) error
	Delete(ctx context.Context, tenant multitenancy.TenantIdentifier, userID string) (bool, error)
}

// ResetTokenRepository persists password reset tokens. Tokens are
// app-scoped, like the account recovery they serve.
type ResetTokenRepository interface {
	// Create returns ErrUnknownUserID when the user does not exist in the
	// app and ErrDuplicateTokenHash on a hash collision, in that order.
	// Must run inside a transaction.
	Create(ctx context.Context, app multitenancy.AppIdentifier, token ResetTokenInfo) error

	GetByTokenHash(ctx context.Context, app multitenancy.AppIdentifier, tokenHash string) (*ResetTokenInfo, error)

	// GetAllForUser returns the user's tokens ordered by expiry ascending.
	GetAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) ([]ResetTokenInfo, error)

	// DeleteAllForUser removes every token for the user; consuming one
	// token invalidates the rest.
	DeleteAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) (int64, error)

	// SweepExpired bulk-deletes every token, across all apps, whose expiry
	// is at or before now (millis).
	SweepExpired(ctx context.Context, now int64) (int64, error)
}
