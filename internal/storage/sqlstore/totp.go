package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/totp"
)

type totpDeviceRepo struct {
	s *Store
	h dbx.DBTX
}

func (r *totpDeviceRepo) Create(ctx context.Context, app multitenancy.AppIdentifier, device totp.Device) error {
	query := r.s.q(`SELECT 1 FROM totp_user_devices WHERE app_id = ? AND user_id = ? AND device_name = ? LIMIT 1`)
	var one int
	err := r.h.QueryRowContext(ctx, query, app.AppID, device.UserID, device.DeviceName).Scan(&one)
	if err == nil {
		return totp.ErrDuplicateDevice
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check totp device: %w", err)
	}

	query = r.s.q(`INSERT INTO totp_user_devices (app_id, user_id, device_name, secret_key, period, skew, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	if _, err := r.h.ExecContext(ctx, query, app.AppID, device.UserID, device.DeviceName, device.SecretKey, device.Period, device.Skew, device.Verified, device.CreatedAt); err != nil {
		return r.s.mapInsertErr("insert totp device", err)
	}
	return nil
}

func (r *totpDeviceRepo) GetAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) ([]totp.Device, error) {
	query := r.s.q(`SELECT user_id, device_name, secret_key, period, skew, verified, created_at FROM totp_user_devices
		WHERE app_id = ? AND user_id = ? ORDER BY created_at ASC`)

	rows, err := r.h.QueryContext(ctx, query, app.AppID, userID)
	if err != nil {
		return nil, fmt.Errorf("list totp devices: %w", err)
	}
	defer rows.Close()

	var devices []totp.Device
	for rows.Next() {
		var device totp.Device
		if err := rows.Scan(&device.UserID, &device.DeviceName, &device.SecretKey, &device.Period, &device.Skew, &device.Verified, &device.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan totp device: %w", err)
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

func (r *totpDeviceRepo) MarkVerified(ctx context.Context, app multitenancy.AppIdentifier, userID, deviceName string) error {
	query := r.s.q(`UPDATE totp_user_devices SET verified = ?
		WHERE app_id = ? AND user_id = ? AND device_name = ?`)

	res, err := r.h.ExecContext(ctx, query, true, app.AppID, userID, deviceName)
	if err != nil {
		return fmt.Errorf("verify totp device: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verify totp device: %w", err)
	}
	if n == 0 {
		return totp.ErrUnknownDevice
	}
	return nil
}

func (r *totpDeviceRepo) Delete(ctx context.Context, app multitenancy.AppIdentifier, userID, deviceName string) (bool, error) {
	query := r.s.q(`DELETE FROM totp_user_devices WHERE app_id = ? AND user_id = ? AND device_name = ?`)

	res, err := r.h.ExecContext(ctx, query, app.AppID, userID, deviceName)
	if err != nil {
		return false, fmt.Errorf("delete totp device: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete totp device: %w", err)
	}
	return n > 0, nil
}
