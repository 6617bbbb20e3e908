package session

import (
	"net/http"

	"github.com/google/uuid"
)

// Transport moves the session identifier between an HTTP exchange and the
// application. It knows nothing about validity or persistence.
type Transport interface {
	// Extract returns the identifier presented by the client, if any.
	// Absence is not an error.
	Extract(r *http.Request) (string, bool)

	// Attach writes the identifier to the response. Repeated calls replace
	// earlier values.
	Attach(w http.ResponseWriter, id uuid.UUID)

	// Detach removes the identifier from the client. It is a no-op when
	// nothing was attached.
	Detach(w http.ResponseWriter)
}
