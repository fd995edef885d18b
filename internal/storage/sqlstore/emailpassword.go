package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/emailpassword"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

type emailPasswordUserRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *emailPasswordUserRepo) Create(ctx context.Context, tenant multitenancy.TenantIdentifier, user emailpassword.User) error {
	existing, err := r.GetByUserID(ctx, tenant, user.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return emailpassword.ErrDuplicateUserID
	}

	existing, err = r.GetByEmail(ctx, tenant, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return emailpassword.ErrDuplicateEmail
	}

	query := r.s.q(`INSERT INTO emailpassword_users (app_id, tenant_id, user_id, email, password_hash, time_joined)
		VALUES (?, ?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, user.UserID, user.Email, user.PasswordHash, user.TimeJoined); err != nil {
		return r.s.mapInsertErr("insert emailpassword user", err)
	}
	return nil
}

func (r *emailPasswordUserRepo) GetByUserID(ctx context.Context, tenant multitenancy.TenantIdentifier, userID string) (*emailpassword.User, error) {
	query := r.s.q(`SELECT user_id, email, password_hash, time_joined FROM emailpassword_users
		WHERE app_id = ? AND tenant_id = ? AND user_id = ?`)

	return r.scanOne(r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID, userID))
}

func (r *emailPasswordUserRepo) GetByEmail(ctx context.Context, tenant multitenancy.TenantIdentifier, email string) (*emailpassword.User, error) {
	query := r.s.q(`SELECT user_id, email, password_hash, time_joined FROM emailpassword_users
		WHERE app_id = ? AND tenant_id = ? AND email = ?`)

	return r.scanOne(r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID, email))
}

func (r *emailPasswordUserRepo) scanOne(row *sql.Row) (*emailpassword.User, error) {
	user := &emailpassword.User{}
	err := row.Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.TimeJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan emailpassword user: %w", err)
	}
	return user, nil
}

func (r *emailPasswordUserRepo) UpdatePasswordHash(ctx context.Context, tenant multitenancy.TenantIdentifier, userID, passwordHash string) error {
	query := r.s.q(`UPDATE emailpassword_users SET password_hash = ?
		WHERE app_id = ? AND tenant_id = ? AND user_id = ?`)

	res, err := r.h.ExecContext(ctx, query, passwordHash, tenant.AppID, tenant.TenantID, userID)
	if err != nil {
		return fmt.Errorf("update emailpassword password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update emailpassword password: %w", err)
	}
	if n == 0 {
		return emailpassword.ErrUnknownUserID
	}
	return nil
}

func (r *emailPasswordUserRepo) Delete(ctx context.Context, tenant multitenancy.TenantIdentifier, userID string) (bool, error) {
	query := r.s.q(`DELETE FROM emailpassword_users WHERE app_id = ? AND tenant_id = ? AND user_id = ?`)

	res, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, userID)
	if err != nil {
		return false, fmt.Errorf("delete emailpassword user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete emailpassword user: %w", err)
	}
	return n > 0, nil
}

type resetTokenRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *resetTokenRepo) Create(ctx context.Context, app multitenancy.AppIdentifier, token emailpassword.ResetTokenInfo) error {
	// The user may exist in any tenant of the app; reset tokens are
	// app-scoped.
	query := r.s.q(`SELECT 1 FROM emailpassword_users WHERE app_id = ? AND user_id = ? LIMIT 1`)
	var one int
	err := r.h.QueryRowContext(ctx, query, app.AppID, token.UserID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return emailpassword.ErrUnknownUserID
	}
	if err != nil {
		return fmt.Errorf("check emailpassword user: %w", err)
	}

	existing, err := r.GetByTokenHash(ctx, app, token.TokenHash)
	if err != nil {
		return err
	}
	if existing != nil {
		return emailpassword.ErrDuplicateTokenHash
	}

	query = r.s.q(`INSERT INTO emailpassword_pswd_reset_tokens (app_id, user_id, token_hash, token_expiry)
		VALUES (?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, app.AppID, token.UserID, token.TokenHash, token.Expiry); err != nil {
		return r.s.mapInsertErr("insert reset token", err)
	}
	return nil
}

func (r *resetTokenRepo) GetByTokenHash(ctx context.Context, app multitenancy.AppIdentifier, tokenHash string) (*emailpassword.ResetTokenInfo, error) {
	query := r.s.q(`SELECT user_id, token_hash, token_expiry FROM emailpassword_pswd_reset_tokens
		WHERE app_id = ? AND token_hash = ?`)

	token := &emailpassword.ResetTokenInfo{}
	err := r.h.QueryRowContext(ctx, query, app.AppID, tokenHash).
		Scan(&token.UserID, &token.TokenHash, &token.Expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan reset token: %w", err)
	}
	return token, nil
}

func (r *resetTokenRepo) GetAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) ([]emailpassword.ResetTokenInfo, error) {
	query := r.s.q(`SELECT user_id, token_hash, token_expiry FROM emailpassword_pswd_reset_tokens
		WHERE app_id = ? AND user_id = ? ORDER BY token_expiry ASC`)

	rows, err := r.h.QueryContext(ctx, query, app.AppID, userID)
	if err != nil {
		return nil, fmt.Errorf("list reset tokens: %w", err)
	}
	defer rows.Close()

	var tokens []emailpassword.ResetTokenInfo
	for rows.Next() {
		var token emailpassword.ResetTokenInfo
		if err := rows.Scan(&token.UserID, &token.TokenHash, &token.Expiry); err != nil {
			return nil, fmt.Errorf("scan reset token: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (r *resetTokenRepo) DeleteAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) (int64, error) {
	query := r.s.q(`DELETE FROM emailpassword_pswd_reset_tokens WHERE app_id = ? AND user_id = ?`)

	res, err := r.h.ExecContext(ctx, query, app.AppID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete reset tokens: %w", err)
	}
	return res.RowsAffected()
}

func (r *resetTokenRepo) SweepExpired(ctx context.Context, now int64) (int64, error) {
	query := r.s.q(`DELETE FROM emailpassword_pswd_reset_tokens WHERE token_expiry <= ?`)

	res, err := r.h.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("sweep reset tokens: %w", err)
	}
	return res.RowsAffected()
}
