package passwordless

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/multitenancy"
)

// Store is the slice of the storage contract the passwordless recipe uses.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) error
	PasswordlessDevices(h dbx.DBTX) DeviceRepository
	PasswordlessCodes(h dbx.DBTX) CodeRepository
}

// Service creates and consumes passwordless codes.
type Service struct {
	store        Store
	codeValidity time.Duration
	now          func() time.Time
}

func NewService(store Store, codeValidity time.Duration) *Service {
	return &Service{store: store, codeValidity: codeValidity, now: time.Now}
}

// CreateCodeResult carries the generated identifiers back to the caller;
// the delivery of the user-facing code is out of scope here.
type CreateCodeResult struct {
	DeviceIDHash string
	Code         Code
}

// CreateCode creates a code for the contact's device, registering the
// device first if this is the contact's first code.
func (s *Service) CreateCode(ctx context.Context, tenant multitenancy.TenantIdentifier, email, phoneNumber string) (*CreateCodeResult, error) {
	deviceIDHash := HashID(uuid.NewString())
	code := Code{
		CodeID:       uuid.NewString(),
		DeviceIDHash: deviceIDHash,
		LinkCodeHash: HashID(uuid.NewString()),
		CreatedAt:    s.now().UnixMilli(),
		Expiry:       s.now().Add(s.codeValidity).UnixMilli(),
	}

	err := s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		device := Device{DeviceIDHash: deviceIDHash, Email: email, PhoneNumber: phoneNumber}
		if err := s.store.PasswordlessDevices(h).Create(ctx, tenant, device); err != nil {
			return err
		}
		return s.store.PasswordlessCodes(h).Create(ctx, tenant, code)
	})
	if err != nil {
		return nil, err
	}

	return &CreateCodeResult{DeviceIDHash: deviceIDHash, Code: code}, nil
}

// ConsumeCode validates the code by link code hash and, on success,
// removes the whole device along with every code issued for it. Returns
// ErrRestartFlow when the code is absent or expired.
func (s *Service) ConsumeCode(ctx context.Context, tenant multitenancy.TenantIdentifier, linkCodeHash string) (*Device, error) {
	var device *Device

	err := s.store.RunInTransaction(ctx, func(ctx context.Context, h dbx.DBTX) error {
		code, err := s.store.PasswordlessCodes(h).GetByLinkCodeHash(ctx, tenant, linkCodeHash)
		if err != nil {
			return err
		}
		if code == nil || code.Expiry <= s.now().UnixMilli() {
			return ErrRestartFlow
		}

		device, err = s.store.PasswordlessDevices(h).GetByDeviceIDHash(ctx, tenant, code.DeviceIDHash)
		if err != nil {
			return err
		}
		if device == nil {
			return ErrRestartFlow
		}

		_, err = s.store.PasswordlessDevices(h).Delete(ctx, tenant, code.DeviceIDHash)
		return err
	})
	if err != nil {
		return nil, err
	}

	return device, nil
}

// SweepExpiredCodes removes every code past its expiry.
func (s *Service) SweepExpiredCodes(ctx context.Context) (int64, error) {
	return s.store.PasswordlessCodes(nil).SweepExpired(ctx, s.now().UnixMilli())
}

// HashID returns the url-safe base64 SHA-256 of an identifier, the form in
// which device and link code ids are persisted.
func HashID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
