package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for session persistence.
// Implementations must be safe for concurrent use.
type Store[C any] interface {
	// FindByID returns the stored session or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Session[C], error)

	// DeleteByID removes a session and reports whether a record existed.
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)

	// RefreshValidity atomically extends ValidTill to max(ValidTill, validTill)
	// only if the record is active and ValidTill >= now, returning the updated
	// record. It returns ErrNotFound and modifies nothing otherwise.
	RefreshValidity(ctx context.Context, id uuid.UUID, validTill, now time.Time) (*Session[C], error)

	// Insert persists a new session. A colliding ID yields ErrDuplicateID.
	Insert(ctx context.Context, session *Session[C]) (uuid.UUID, error)
}

// ActiveSetter is implemented by stores that can flip the business flag of
// a stored session without touching its validity. It returns ErrNotFound
// when no record exists.
type ActiveSetter interface {
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
