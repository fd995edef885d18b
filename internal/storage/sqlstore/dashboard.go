package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dashboard"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

type dashboardUserRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *dashboardUserRepo) Create(ctx context.Context, app multitenancy.AppIdentifier, user dashboard.User) error {
	// Uniqueness rules in declaration order: user id before email.
	existing, err := r.GetByUserID(ctx, app, user.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return dashboard.ErrDuplicateUserID
	}

	existing, err = r.GetByEmail(ctx, app, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return dashboard.ErrDuplicateEmail
	}

	query := r.s.q(`INSERT INTO dashboard_users (app_id, user_id, email, password_hash, time_joined)
		VALUES (?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, app.AppID, user.UserID, user.Email, user.PasswordHash, user.TimeJoined); err != nil {
		return r.s.mapInsertErr("insert dashboard user", err)
	}
	return nil
}

func (r *dashboardUserRepo) GetByUserID(ctx context.Context, app multitenancy.AppIdentifier, userID string) (*dashboard.User, error) {
	query := r.s.q(`SELECT user_id, email, password_hash, time_joined FROM dashboard_users
		WHERE app_id = ? AND user_id = ?`)

	return r.scanOne(r.h.QueryRowContext(ctx, query, app.AppID, userID))
}

func (r *dashboardUserRepo) GetByEmail(ctx context.Context, app multitenancy.AppIdentifier, email string) (*dashboard.User, error) {
	query := r.s.q(`SELECT user_id, email, password_hash, time_joined FROM dashboard_users
		WHERE app_id = ? AND email = ?`)

	return r.scanOne(r.h.QueryRowContext(ctx, query, app.AppID, email))
}

func (r *dashboardUserRepo) scanOne(row *sql.Row) (*dashboard.User, error) {
	user := &dashboard.User{}
	err := row.Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.TimeJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan dashboard user: %w", err)
	}
	return user, nil
}

func (r *dashboardUserRepo) GetAll(ctx context.Context, app multitenancy.AppIdentifier) ([]dashboard.User, error) {
	query := r.s.q(`SELECT user_id, email, password_hash, time_joined FROM dashboard_users
		WHERE app_id = ? ORDER BY time_joined ASC`)

	rows, err := r.h.QueryContext(ctx, query, app.AppID)
	if err != nil {
		return nil, fmt.Errorf("list dashboard users: %w", err)
	}
	defer rows.Close()

	var users []dashboard.User
	for rows.Next() {
		var user dashboard.User
		if err := rows.Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.TimeJoined); err != nil {
			return nil, fmt.Errorf("scan dashboard user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *dashboardUserRepo) UpdateEmail(ctx context.Context, app multitenancy.AppIdentifier, userID, email string) error {
	user, err := r.GetByUserID(ctx, app, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return dashboard.ErrUserIDNotFound
	}

	other, err := r.GetByEmail(ctx, app, email)
	if err != nil {
		return err
	}
	if other != nil && other.UserID != userID {
		return dashboard.ErrDuplicateEmail
	}

	query := r.s.q(`UPDATE dashboard_users SET email = ? WHERE app_id = ? AND user_id = ?`)
	if _, err := r.h.ExecContext(ctx, query, email, app.AppID, userID); err != nil {
		return r.s.mapInsertErr("update dashboard email", err)
	}
	return nil
}

func (r *dashboardUserRepo) UpdatePasswordHash(ctx context.Context, app multitenancy.AppIdentifier, userID, passwordHash string) error {
	query := r.s.q(`UPDATE dashboard_users SET password_hash = ? WHERE app_id = ? AND user_id = ?`)

	res, err := r.h.ExecContext(ctx, query, passwordHash, app.AppID, userID)
	if err != nil {
		return fmt.Errorf("update dashboard password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update dashboard password: %w", err)
	}
	if n == 0 {
		return dashboard.ErrUserIDNotFound
	}
	return nil
}

func (r *dashboardUserRepo) Delete(ctx context.Context, app multitenancy.AppIdentifier, userID string) (bool, error) {
	// Sessions are referentially tied to the user by scope, not by a live
	// foreign key, so remove them alongside.
	query := r.s.q(`DELETE FROM dashboard_user_sessions WHERE app_id = ? AND user_id = ?`)
	if _, err := r.h.ExecContext(ctx, query, app.AppID, userID); err != nil {
		return false, fmt.Errorf("delete dashboard sessions: %w", err)
	}

	query = r.s.q(`DELETE FROM dashboard_users WHERE app_id = ? AND user_id = ?`)
	res, err := r.h.ExecContext(ctx, query, app.AppID, userID)
	if err != nil {
		return false, fmt.Errorf("delete dashboard user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete dashboard user: %w", err)
	}
	return n > 0, nil
}

type dashboardSessionRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *dashboardSessionRepo) Create(ctx context.Context, app multitenancy.AppIdentifier, session dashboard.SessionInfo) error {
	// Existence of the owner is checked here, not enforced by the schema.
	owner, err := (&dashboardUserRepo{s: r.s, h: r.h}).GetByUserID(ctx, app, session.UserID)
	if err != nil {
		return err
	}
	if owner == nil {
		return dashboard.ErrUserIDNotFound
	}

	existing, err := r.GetBySessionID(ctx, app, session.SessionID)
	if err != nil {
		return err
	}
	if existing != nil {
		return dashboard.ErrDuplicateSessionID
	}

	query := r.s.q(`INSERT INTO dashboard_user_sessions (app_id, session_id, user_id, time_created, expiry)
		VALUES (?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, app.AppID, session.SessionID, session.UserID, session.TimeCreated, session.Expiry); err != nil {
		return r.s.mapInsertErr("insert dashboard session", err)
	}
	return nil
}

func (r *dashboardSessionRepo) GetBySessionID(ctx context.Context, app multitenancy.AppIdentifier, sessionID string) (*dashboard.SessionInfo, error) {
	query := r.s.q(`SELECT session_id, user_id, time_created, expiry FROM dashboard_user_sessions
		WHERE app_id = ? AND session_id = ?`)

	session := &dashboard.SessionInfo{}
	err := r.h.QueryRowContext(ctx, query, app.AppID, sessionID).
		Scan(&session.SessionID, &session.UserID, &session.TimeCreated, &session.Expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan dashboard session: %w", err)
	}
	return session, nil
}

func (r *dashboardSessionRepo) GetAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) ([]dashboard.SessionInfo, error) {
	query := r.s.q(`SELECT session_id, user_id, time_created, expiry FROM dashboard_user_sessions
		WHERE app_id = ? AND user_id = ? ORDER BY time_created ASC`)

	rows, err := r.h.QueryContext(ctx, query, app.AppID, userID)
	if err != nil {
		return nil, fmt.Errorf("list dashboard sessions: %w", err)
	}
	defer rows.Close()

	var sessions []dashboard.SessionInfo
	for rows.Next() {
		var session dashboard.SessionInfo
		if err := rows.Scan(&session.SessionID, &session.UserID, &session.TimeCreated, &session.Expiry); err != nil {
			return nil, fmt.Errorf("scan dashboard session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *dashboardSessionRepo) Revoke(ctx context.Context, app multitenancy.AppIdentifier, sessionID string) (bool, error) {
	query := r.s.q(`DELETE FROM dashboard_user_sessions WHERE app_id = ? AND session_id = ?`)

	res, err := r.h.ExecContext(ctx, query, app.AppID, sessionID)
	if err != nil {
		return false, fmt.Errorf("revoke dashboard session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke dashboard session: %w", err)
	}
	return n > 0, nil
}

func (r *dashboardSessionRepo) SweepExpired(ctx context.Context, now int64) (int64, error) {
	query := r.s.q(`DELETE FROM dashboard_user_sessions WHERE expiry <= ?`)

	res, err := r.h.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("sweep dashboard sessions: %w", err)
	}
	return res.RowsAffected()
}
