package passwordless

import (
	"context"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

// DeviceRepository persists passwordless devices, tenant-scoped. Lookups
// return (nil, nil) when absent.
type DeviceRepository interface {
	// Create returns ErrDuplicateDeviceIDHash on collision. Must run
	// inside a transaction.
	Create(ctx context.Context, tenant multitenancy.TenantIdentifier, device Device) error

	GetByDeviceIDHash(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) (*Device, error)

	IncrementFailedAttempts(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) (bool, error)

	// Delete removes the device and all of its codes. Reports whether a
	// device row existed.
	Delete(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) (bool, error)
}

// CodeRepository persists the codes generated for devices.
type CodeRepository interface {
	// Create returns ErrUnknownDeviceIDHash when the device does not
	// exist, then ErrDuplicateCodeID, then ErrDuplicateLinkCodeHash, in
	// that order. Must run inside a transaction.
	Create(ctx context.Context, tenant multitenancy.TenantIdentifier, code Code) error

	GetByCodeID(ctx context.Context, tenant multitenancy.TenantIdentifier, codeID string) (*Code, error)
	GetByLinkCodeHash(ctx context.Context, tenant multitenancy.TenantIdentifier, linkCodeHash string) (*Code, error)

	// GetAllForDevice returns the device's codes ordered by creation time
	// ascending.
	GetAllForDevice(ctx context.Context, tenant multitenancy.TenantIdentifier, deviceIDHash string) ([]Code, error)

	Delete(ctx context.Context, tenant multitenancy.TenantIdentifier, codeID string) (bool, error)

	// SweepExpired bulk-deletes every code, across all tenants and apps,
	// whose expiry is at or before now (millis).
	SweepExpired(ctx context.Context, now int64) (int64, error)
}
