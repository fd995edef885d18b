// Package totp implements the TOTP recipe's storage side: app-scoped
// per-user devices. Code generation and verification windows live in the
// surrounding layer.
package totp

import (
	"context"
	"errors"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

var (
	// ErrDuplicateDevice is returned when the user already has a device
	// with the same name.
	ErrDuplicateDevice = errors.New("totp device already exists")

	// ErrUnknownDevice is returned by updates against a device that does
	// not exist.
	ErrUnknownDevice = errors.New("totp device not found")
)

// Device is one registered TOTP device. Devices are app-scoped (a second
// factor belongs to the account, not to a tenant). CreatedAt is unix
// millis.
type Device struct {
	UserID     string
	DeviceName string
	SecretKey  string
	Period     int
	Skew       int
	Verified   bool
	CreatedAt  int64
}

// DeviceRepository persists TOTP devices.
type DeviceRepository interface {
	// Create returns ErrDuplicateDevice when (user id, device name) is
	// taken. Must run inside a transaction.
	Create(ctx context.Context, app multitenancy.AppIdentifier, device Device) error

	// GetAllForUser returns the user's devices ordered by creation time
	// ascending.
	GetAllForUser(ctx context.Context, app multitenancy.AppIdentifier, userID string) ([]Device, error)

	// MarkVerified returns ErrUnknownDevice when the device is absent.
	MarkVerified(ctx context.Context, app multitenancy.AppIdentifier, userID, deviceName string) error

	Delete(ctx context.Context, app multitenancy.AppIdentifier, userID, deviceName string) (bool, error)
}
