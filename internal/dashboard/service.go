package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

// Store is the slice of the storage contract the dashboard recipe uses.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) error
	DashboardUsers(h dbx.DBTX) UserRepository
	DashboardSessions(h dbx.DBTX) SessionRepository
}

// Service implements dashboard sign-up, sign-in, and session management on
// top of a Store.
type Service struct {
	store           Store
	sessionValidity time.Duration
	secretKey       []byte
	now             func() time.Time
}

func NewService(store Store, sessionValidity time.Duration, secretKey []byte) *Service {
	return &Service{
		store:           store,
		sessionValidity: sessionValidity,
		secretKey:       secretKey,
		now:             time.Now,
	}
}

// SignUp creates a dashboard user with a fresh user id and a bcrypt
// password hash. Returns ErrDuplicateEmail when the email is taken.
func (s *Service) SignUp(ctx context.Context, app multitenancy.AppIdentifier, email, password string) (*User, error) {
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
		return s.store.DashboardUsers(h).Create(ctx, app, user)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SignIn verifies the credentials, creates a session, and returns the
// signed session token. Returns ErrWrongCredentials for an unknown email
// or a password mismatch.
func (s *Service) SignIn(ctx context.Context, app multitenancy.AppIdentifier, email, password string) (string, error) {
	user, err := s.store.DashboardUsers(nil).GetByEmail(ctx, app, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrWrongCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrWrongCredentials
	}

	session := SessionInfo{
		SessionID:   uuid.NewString(),
		UserID:      user.UserID,
		TimeCreated: s.now().UnixMilli(),
		Expiry:      s.now().Add(s.sessionValidity).UnixMilli(),
	}

	err = s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return s.store.DashboardSessions(h).Create(ctx, app, session)
	})
	if err != nil {
		return "", err
	}

	return GenerateSessionToken(session.SessionID, session.UserID, session.Expiry, s.secretKey)
}

// VerifySessionToken checks the token signature and that its session still
// exists and has not logically expired.
func (s *Service) VerifySessionToken(ctx context.Context, app multitenancy.AppIdentifier, token string) (*SessionInfo, error) {
	sessionID, userID, err := ParseSessionToken(token, s.secretKey)
	if err != nil {
		return nil, err
	}

	session, err := s.store.DashboardSessions(nil).GetBySessionID(ctx, app, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID || session.Expired(s.now().UnixMilli()) {
		return nil, ErrInvalidSessionToken
	}

	return session, nil
}

// UpdateEmail changes the user's email inside one transaction so the
// uniqueness check and the write are atomic.
func (s *Service) UpdateEmail(ctx context.Context, app multitenancy.AppIdentifier, userID, newEmail string) error {
	return s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		return s.store.DashboardUsers(h).UpdateEmail(ctx, app, userID, newEmail)
	})
}

// DeleteUser removes the user and their sessions.
func (s *Service) DeleteUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) (bool, error) {
	var existed bool
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		var err error
		existed, err = s.store.DashboardUsers(h).Delete(ctx, app, userID)
		return err
	})
	return existed, err
}

// RevokeSession deletes the session by id; revoking twice returns
// true then false.
func (s *Service) RevokeSession(ctx context.Context, app multitenancy.AppIdentifier, sessionID string) (bool, error) {
	return s.store.DashboardSessions(nil).Revoke(ctx, app, sessionID)
}

// SweepExpiredSessions removes every session past its expiry. Runs
// autocommit: the sweep is re-entrant and not tied to any caller-visible
// unit of work.
func (s *Service) SweepExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.DashboardSessions(nil).SweepExpired(ctx, s.now().UnixMilli())
}

// IsConflict reports whether err is one of the recipe's identity-conflict
// errors, as opposed to a fatal storage failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateUserID) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateSessionID)
}
