package usecase

import (
	"errors"
	"fmt"

	"bookinghub/internal/usecase/interfaces"
)

var (
	ErrInvalidBookingID   = errors.New("invalid booking id")
	ErrInvalidTargetState = errors.New("invalid target state")
	ErrInvalidVersion     = errors.New("invalid expected version")
	ErrInvalidActor       = errors.New("invalid actor")
	ErrInvalidServiceID   = errors.New("invalid service id")
	ErrInvalidSequence    = errors.New("invalid sequence")
	ErrInvalidGroup       = errors.New("invalid group")
	ErrInvalidSummary     = errors.New("invalid summary")
	ErrInvalidListFilter  = errors.New("invalid list filter")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrForbidden          = errors.New("actor not authorized")
	ErrVersionConflict    = errors.New("booking version conflict")
	ErrInvalidTransition  = errors.New("invalid booking transition")
	ErrStorageFailure     = errors.New("storage failure")
)

// ErrorKind is the error taxonomy exposed at the boundaries (HTTP, realtime).
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindAuth              ErrorKind = "AUTH"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindConflict          ErrorKind = "CONFLICT"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindStorageFailure    ErrorKind = "STORAGE_FAILURE"
	KindInternal          ErrorKind = "INTERNAL"
)

// KindOf classifies err. CONFLICT is the only kind a client should retry
// automatically (after re-reading the booking).
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidBookingID), errors.Is(err, ErrInvalidTargetState),
		errors.Is(err, ErrInvalidVersion), errors.Is(err, ErrInvalidActor),
		errors.Is(err, ErrInvalidServiceID), errors.Is(err, ErrInvalidSequence),
		errors.Is(err, ErrInvalidGroup), errors.Is(err, ErrInvalidSummary),
		errors.Is(err, ErrInvalidListFilter):
		return KindValidation
	case errors.Is(err, ErrBookingNotFound):
		return KindNotFound
	case errors.Is(err, interfaces.ErrInvalidCredential):
		return KindAuth
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrVersionConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrStorageFailure):
		return KindStorageFailure
	default:
		return KindInternal
	}
}

func storageFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}
