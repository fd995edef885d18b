package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/passwordless"
)

type passwordlessDeviceRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *passwordlessDeviceRepo) Create(ctx context.Context, tenant multitenancy.TenantIdentifier, device passwordless.Device) error {
	existing, err := r.GetByDeviceIDHash(ctx, tenant, device.DeviceIDHash)
	if err != nil {
		return err
	}
	if existing != nil {
		return passwordless.ErrDuplicateDeviceIDHash
	}

	query := r.s.q(`INSERT INTO passwordless_devices (app_id, tenant_id, device_id_hash, email, phone_number, failed_attempts)
		VALUES (?, ?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, device.DeviceIDHash, device.Email, device.PhoneNumber, device.FailedAttempts); err != nil {
		return r.s.mapInsertErr("insert passwordless device", err)
	}
	return nil
}

func (r *passwordlessDeviceRepo) GetByDeviceIDHash(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) (*passwordless.Device, error) {
	query := r.s.q(`SELECT device_id_hash, email, phone_number, failed_attempts FROM passwordless_devices
		WHERE app_id = ? AND tenant_id = ? AND device_id_hash = ?`)

	device := &passwordless.Device{}
	err := r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID, deviceIDHash).
		Scan(&device.DeviceIDHash, &device.Email, &device.PhoneNumber, &device.FailedAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan passwordless device: %w", err)
	}
	return device, nil
}

func (r *passwordlessDeviceRepo) IncrementFailedAttempts(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) (bool, error) {
	query := r.s.q(`UPDATE passwordless_devices SET failed_attempts = failed_attempts + 1
		WHERE app_id = ? AND tenant_id = ? AND device_id_hash = ?`)

	res, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, deviceIDHash)
	if err != nil {
		return false, fmt.Errorf("increment failed attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment failed attempts: %w", err)
	}
	return n > 0, nil
}

func (r *passwordlessDeviceRepo) Delete(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) (bool, error) {
	// Codes belong to the device by scope; remove them alongside.
	query := r.s.q(`DELETE FROM passwordless_codes WHERE app_id = ? AND tenant_id = ? AND device_id_hash = ?`)
	if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, deviceIDHash); err != nil {
		return false, fmt.Errorf("delete passwordless codes: %w", err)
	}

	query = r.s.q(`DELETE FROM passwordless_devices WHERE app_id = ? AND tenant_id = ? AND device_id_hash = ?`)
	res, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, deviceIDHash)
	if err != nil {
		return false, fmt.Errorf("delete passwordless device: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete passwordless device: %w", err)
	}
	return n > 0, nil
}

type passwordlessCodeRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *passwordlessCodeRepo) Create(ctx context.Context, tenant multitenancy.TenantIdentifier, code passwordless.Code) error {
	device, err := (&passwordlessDeviceRepo{s: r.s, h: r.h}).GetByDeviceIDHash(ctx, tenant, code.DeviceIDHash)
	if err != nil {
		return err
	}
	if device == nil {
		return passwordless.ErrUnknownDeviceIDHash
	}

	existing, err := r.GetByCodeID(ctx, tenant, code.CodeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return passwordless.ErrDuplicateCodeID
	}

	existing, err = r.GetByLinkCodeHash(ctx, tenant, code.LinkCodeHash)
	if err != nil {
		return err
	}
	if existing != nil {
		return passwordless.ErrDuplicateLinkCodeHash
	}

	query := r.s.q(`INSERT INTO passwordless_codes (app_id, tenant_id, code_id, device_id_hash, link_code_hash, created_at, expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, code.CodeID, code.DeviceIDHash, code.LinkCodeHash, code.CreatedAt, code.Expiry); err != nil {
		return r.s.mapInsertErr("insert passwordless code", err)
	}
	return nil
}

func (r *passwordlessCodeRepo) GetByCodeID(ctx context.Context, tenant multitenancy.TenantIdentifier, codeID string) (*passwordless.Code, error) {
	query := r.s.q(`SELECT code_id, device_id_hash, link_code_hash, created_at, expiry FROM passwordless_codes
		WHERE app_id = ? AND tenant_id = ? AND code_id = ?`)

	return r.scanOne(r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID, codeID))
}

func (r *passwordlessCodeRepo) GetByLinkCodeHash(ctx context.Context, tenant multitenancy.TenantIdentifier, linkCodeHash string) (*passwordless.Code, error) {
	query := r.s.q(`SELECT code_id, device_id_hash, link_code_hash, created_at, expiry FROM passwordless_codes
		WHERE app_id = ? AND tenant_id = ? AND link_code_hash = ?`)

	return r.scanOne(r.h.QueryRowContext(ctx, query, tenant.AppID, tenant.TenantID, linkCodeHash))
}

func (r *passwordlessCodeRepo) scanOne(row *sql.Row) (*passwordless.Code, error) {
	code := &passwordless.Code{}
	err := row.Scan(&code.CodeID, &code.DeviceIDHash, &code.LinkCodeHash, &code.CreatedAt, &code.Expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan passwordless code: %w", err)
	}
	return code, nil
}

func (r *passwordlessCodeRepo) GetAllForDevice(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) ([]passwordless.Code, error) {
	query := r.s.q(`SELECT code_id, device_id_hash, link_code_hash, created_at, expiry FROM passwordless_codes
		WHERE app_id = ? AND tenant_id = ? AND device_id_hash = ? ORDER BY created_at ASC`)

	rows, err := r.h.QueryContext(ctx, query, tenant.AppID, tenant.TenantID, deviceIDHash)
	if err != nil {
		return nil, fmt.Errorf("list passwordless codes: %w", err)
	}
	defer rows.Close()

	var codes []passwordless.Code
	for rows.Next() {
		var code passwordless.Code
		if err := rows.Scan(&code.CodeID, &code.DeviceIDHash, &code.LinkCodeHash, &code.CreatedAt, &code.Expiry); err != nil {
			return nil, fmt.Errorf("scan passwordless code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *passwordlessCodeRepo) Delete(ctx context.Context, tenant multitenancy.TenantIdentifier, codeID string) (bool, error) {
	query := r.s.q(`DELETE FROM passwordless_codes WHERE app_id = ? AND tenant_id = ? AND code_id = ?`)

	res, err := r.h.ExecContext(ctx, query, tenant.AppID, tenant.TenantID, codeID)
	if err != nil {
		return false, fmt.Errorf("delete passwordless code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete passwordless code: %w", err)
	}
	return n > 0, nil
}

func (r *passwordlessCodeRepo) SweepExpired(ctx context.Context, now int64) (int64, error) {
	query := r.s.q(`DELETE FROM passwordless_codes WHERE expiry <= ?`)

	res, err := r.h.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("sweep passwordless codes: %w", err)
	}
	return res.RowsAffected()
}
