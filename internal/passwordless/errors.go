package passwordless

import "errors"

var (
	// ErrDuplicateDeviceIDHash is returned when a device id hash collides
	// within the tenant.
	ErrDuplicateDeviceIDHash = errors.New("passwordless device already exists")

	// Uniqueness rules for codes, checked in this order.
	ErrDuplicateCodeID       = errors.New("passwordless code id already exists")
	ErrDuplicateLinkCodeHash = errors.New("passwordless link code already exists")

	// ErrUnknownDeviceIDHash is returned when creating a code for a device
	// that does not exist.
	ErrUnknownDeviceIDHash = errors.New("passwordless device not found")

	// ErrRestartFlow is returned by consume when the code is absent or
	// expired; the caller should restart the login flow.
	ErrRestartFlow = errors.New("passwordless flow must be restarted")
)
