package dashboard

import "errors"

var (
	// ErrDuplicateUserID and ErrDuplicateEmail are the user uniqueness
	// rules, checked in that order: a create violating both reports the
	// user-id conflict.
	ErrDuplicateUserID = errors.New("dashboard user id already exists")
	ErrDuplicateEmail  = errors.New("dashboard email already exists")

	// ErrDuplicateSessionID is returned when a session id collides within
	// the app.
	ErrDuplicateSessionID = errors.New("dashboard session id already exists")

	// ErrUserIDNotFound is returned by operations that require an existing
	// user (session creation, email/password updates).
	ErrUserIDNotFound = errors.New("dashboard user id not found")

	// ErrWrongCredentials is returned by sign-in when the email is unknown
	// or the password does not match.
	ErrWrongCredentials = errors.New("wrong dashboard credentials")

	// ErrInvalidSessionToken is returned when a session token fails
	// signature or expiry checks, or its session has been revoked.
	ErrInvalidSessionToken = errors.New("invalid dashboard session token")
)
