package multitenancy

import "errors"

var (
	// ErrDuplicateApp is returned when creating an app whose id is taken
	// within its connection domain.
	ErrDuplicateApp = errors.New("app already exists")

	// ErrDuplicateTenant is returned when creating a tenant whose id is
	// taken within its app.
	ErrDuplicateTenant = errors.New("tenant already exists")

	// ErrAppNotFound is returned when a tenant references an app that was
	// never created.
	ErrAppNotFound = errors.New("app not found")
)
