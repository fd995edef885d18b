package emailpassword

import "errors"

var (
	// Uniqueness rules for users, checked in this order: user id first,
	// then email.
	ErrDuplicateUserID = errors.New("emailpassword user id already exists")
	ErrDuplicateEmail  = errors.New("emailpassword email already exists")

	// ErrDuplicateTokenHash is returned on a reset token hash collision.
	ErrDuplicateTokenHash = errors.New("password reset token already exists")

	// ErrUnknownUserID is returned when creating a reset token for a user
	// that does not exist.
	ErrUnknownUserID = errors.New("emailpassword user id not found")
)
