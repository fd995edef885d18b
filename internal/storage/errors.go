package storage

import "errors"

var (
	// ErrTxConflict marks a transient backend conflict (serialization
	// failure, lock timeout, or a unique-index race lost after the ordered
	// checks passed). The transaction engine absorbs it by retrying the
	// unit of work; recipe code normally never sees it.
	ErrTxConflict = errors.New("storage transaction conflict")

	// ErrTxRetryLimit is returned once the retry budget for transient
	// conflicts is exhausted. It is a fatal storage error: the last
	// conflict is attached via %w chaining.
	ErrTxRetryLimit = errors.New("storage transaction retry limit reached")
)
