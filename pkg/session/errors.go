package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPresented indicates no session identifier was sent, or it was malformed
	ErrNotPresented = errors.New("session.not_presented")

	// ErrNotFound indicates no active, unexpired session matches the identifier
	ErrNotFound = errors.New("session.not_found")

	// ErrUserInactive indicates the resolved session belongs to a disabled subject
	ErrUserInactive = errors.New("session.user_inactive")

	// ErrTokenInvalid indicates the presented companion token does not match
	ErrTokenInvalid = errors.New("session.token_invalid")

	// ErrTokenMissing indicates a companion token was required but not presented
	ErrTokenMissing = errors.New("session.token_missing")

	// ErrDuplicateID indicates an insert collided with an existing session ID
	ErrDuplicateID = errors.New("session.duplicate_id")

	// ErrInvalidSession indicates a nil session or one that cannot be stored
	ErrInvalidSession = errors.New("session.invalid")

	// ErrStoreFailure wraps infrastructure failures from the persistence layer
	ErrStoreFailure = errors.New("session.store_failure")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrNoTransport indicates no transport is configured
	ErrNoTransport = errors.New("session.no_transport")

	// ErrNoStore indicates no store is configured
	ErrNoStore = errors.New("session.no_store")
)

// TokenMismatchError carries both sides of a failed companion token check.
// Only for diagnostics: never render it to the presenter.
type TokenMismatchError struct {
	Expected string
	Actual   string
}

func (e *TokenMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d chars, got %d", ErrTokenInvalid, len(e.Expected), len(e.Actual))
}

func (e *TokenMismatchError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// IsUnauthorized reports whether err is one of the session failures that
// should be answered with a plain access denial.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNotPresented) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenMissing)
}
