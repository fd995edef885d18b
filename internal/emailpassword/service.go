package emailpassword

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/shared"
)

// Store is the slice of the storage contract the email-password recipe uses.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) error
	EmailPasswordUsers(h dbx.DBTX) UserRepository
	PasswordResetTokens(h dbx.DBTX) ResetTokenRepository
}

// Service implements email-password sign-up and password reset token
// issuance.
type Service struct {
	store         Store
	tokenValidity time.Duration
	now           func() time.Time
}

func NewService(store Store, tokenValidity time.Duration) *Service {
	return &Service{store: store, tokenValidity: tokenValidity, now: time.Now}
}

// SignUp creates a user in the tenant with a fresh id and a bcrypt hash.
func (s *Service) SignUp(ctx context.Context, tenant multitenancy.TenantIdentifier, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		TimeJoined:   s.now().UnixMilli(),
	}

	err = s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return s.store.EmailPasswordUsers(h).Create(ctx, tenant, user)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GeneratePasswordResetToken issues a reset token for the user and returns
// the plaintext token; only its SHA-256 hash is stored.
func (s *Service) GeneratePasswordResetToken(ctx context.Context, app multitenancy.AppIdentifier, userID string) (string, error) {
	token, err := shared.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	info := ResetTokenInfo{
		UserID:    userID,
		TokenHash: HashToken(token),
		Expiry:    s.now().Add(s.tokenValidity).UnixMilli(),
	}

	err = s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return s.store.PasswordResetTokens(h).Create(ctx, app, info)
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ResetPasswordUsingToken consumes the token: it verifies the hash exists
// and is unexpired, updates the password, and deletes all of the user's
// outstanding tokens, atomically. Returns the user id the token belonged
// to, or ErrUnknownUserID when the token is absent or expired.
func (s *Service) ResetPasswordUsingToken(ctx context.Context, tenant multitenancy.TenantIdentifier, token, newPassword string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	app := tenant.ToAppIdentifier()
	var userID string

	err = s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		info, err := s.store.PasswordResetTokens(h).GetByTokenHash(ctx, app, HashToken(token))
		if err != nil {
			return err
		}
		if info == nil || info.Expiry <= s.now().UnixMilli() {
			return ErrUnknownUserID
		}
		userID = info.UserID

		if _, err := s.store.PasswordResetTokens(h).DeleteAllForUser(ctx, app, userID); err != nil {
			return err
		}
		return s.store.EmailPasswordUsers(h).UpdatePasswordHash(ctx, tenant, userID, string(hash))
	})
	if err != nil {
		return "", err
	}

	return userID, nil
}

// SweepExpiredResetTokens removes every token past its expiry.
func (s *Service) SweepExpiredResetTokens(ctx context.Context) (int64, error) {
	return s.store.PasswordResetTokens(nil).SweepExpired(ctx, s.now().UnixMilli())
}

// HashToken returns the hex SHA-256 of a plaintext reset token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
