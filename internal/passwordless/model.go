// Package passwordless implements the passwordless recipe: tenant-scoped
// login devices and the short-lived codes generated for them.
package passwordless

// Device is one passwordless login device, identified by the hash of its
// device id. Exactly one of Email / PhoneNumber is set.
type Device struct {
	DeviceIDHash   string
	Email          string
	PhoneNumber    string
	FailedAttempts int
}

// Code is one outstanding login code for a device. CreatedAt and Expiry
// are unix millis.
type Code struct {
	CodeID       string
	DeviceIDHash string
	LinkCodeHash string
	CreatedAt    int64
	Expiry       int64
}
