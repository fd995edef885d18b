package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/thirdparty"
)

type thirdPartyUserRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *thirdPartyUserRepo) Create(ctx context.Context, tenant multitenancy.TenantIdentifier, user thirdparty.User) error {
	query := r.s.q(`SELECT 1 FROM thirdparty_users WHERE app_id = ? AND tenant_id = ? AND user_id = ? LIMIT 1`)
	var one int
	err := r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID, user.UserID).Scan(&one)
	if err == nil {
		return thirdparty.ErrDuplicateUserID
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check thirdparty user id: %w", err)
	}

	existing, err := r.GetByThirdParty(ctx, tenant, user.ThirdPartyID, user.ThirdPartyUserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return thirdparty.ErrDuplicateThirdPartyUser
	}

	query = r.s.q(`INSERT INTO thirdparty_users (app_id, tenant_id, user_id, third_party_id, third_party_user_id, email, time_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, user.UserID, user.ThirdPartyID, user.ThirdPartyUserID, user.Email, user.TimeJoined); err != nil {
		return r.s.mapInsertErr("insert thirdparty user", err)
	}
	return nil
}

func (r *thirdPartyUserRepo) GetByThirdParty(ctx context.Context, tenant multitenancy.TenantIdentifier, thirdPartyID, thirdPartyUserID string) (*thirdparty.User, error) {
	query := r.s.q(`SELECT user_id, third_party_id, third_party_user_id, email, time_joined FROM thirdparty_users
		WHERE app_id = ? AND tenant_id = ? AND third_party_id = ? AND third_party_user_id = ?`)

	user := &thirdparty.User{}
	err := r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID, thirdPartyID, thirdPartyUserID).
		Scan(&user.UserID, &user.ThirdPartyID, &user.ThirdPartyUserID, &user.Email, &user.TimeJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan thirdparty user: %w", err)
	}
	return user, nil
}

func (r *thirdPartyUserRepo) GetByEmail(ctx context.Context, tenant multitenancy.TenantIdentifier, email string) ([]thirdparty.User, error) {
	query := r.s.q(`SELECT user_id, third_party_id, third_party_user_id, email, time_joined FROM thirdparty_users
		WHERE app_id = ? AND tenant_id = ? AND email = ? ORDER BY time_joined ASC`)

	rows, err := r.h.QueryContext(ctx, query, tenant.AppID, tenant.TenantID, email)
	if err != nil {
		return nil, fmt.Errorf("list thirdparty users: %w", err)
	}
	defer rows.Close()

	var users []thirdparty.User
	for rows.Next() {
		var user thirdparty.User
		if err := rows.Scan(&user.UserID, &user.ThirdPartyID, &user.ThirdPartyUserID, &user.Email, &user.TimeJoined); err != nil {
			return nil, fmt.Errorf("scan thirdparty user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *thirdPartyUserRepo) Delete(ctx context.Context, tenant multitenancy.TenantIdentifier, userID string) (bool, error) {
	query := r.s.q(`DELETE FROM thirdparty_users WHERE app_id = ? AND tenant_id = ? AND user_id = ?`)

	res, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, userID)
	if err != nil {
		return false, fmt.Errorf("delete thirdparty user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete thirdparty user: %w", err)
	}
	return n > 0, nil
}
