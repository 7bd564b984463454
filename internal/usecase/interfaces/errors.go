package interfaces

import "errors"

var (
	// ErrVersionMismatch is returned by ITransitionStore when the stored
	// booking version differs from the expected one.
	ErrVersionMismatch = errors.New("booking version mismatch")
	// ErrWriteContention is returned when a notification stream counter moved
	// underneath the write or the store reported a transaction conflict. The
	// write had no effect and may be retried as is.
	ErrWriteContention = errors.New("write contention")
	// ErrBookingExists is returned by Create when the id is already taken.
	ErrBookingExists = errors.New("booking already exists")
	// ErrInvalidCredential is returned by IIdentityVerifier for malformed,
	// badly signed or expired credentials.
	ErrInvalidCredential = errors.New("invalid credential")
)
