package session

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const headerPrefix = "X-Session-"

// HeaderTransport implements Transport using a custom HTTP header
type HeaderTransport struct {
	headerName string
}

// NewHeaderTransport creates a new header-based transport
func NewHeaderTransport(headerName string) *HeaderTransport {
	return &HeaderTransport{headerName: http.CanonicalHeaderKey(headerName)}
}

// NewSuffixHeaderTransport creates a header transport named X-Session-<Suffix>,
// so several session domains (user, admin) can coexist.
func NewSuffixHeaderTransport(suffix string) *HeaderTransport {
	return NewHeaderTransport(HeaderName(suffix))
}

// HeaderName builds the header name for a session domain suffix.
func HeaderName(suffix string) string {
	title := cases.Title(language.Und).String(strings.ReplaceAll(suffix, "_", "-"))
	return headerPrefix + title
}

// Name returns the header name used by the transport.
func (t *HeaderTransport) Name() string {
	return t.headerName
}

// Extract reads the session identifier from the request header
func (t *HeaderTransport) Extract(r *http.Request) (string, bool) {
	value := strings.TrimSpace(r.Header.Get(t.headerName))
	if value == "" {
		return "", false
	}
	return value, true
}

// Attach sets the session identifier on the response header
func (t *HeaderTransport) Attach(w http.ResponseWriter, id uuid.UUID) {
	w.Header().Set(t.headerName, id.String())
}

// Detach removes every value of the session header from the response
func (t *HeaderTransport) Detach(w http.ResponseWriter) {
	w.Header().Del(t.headerName)
}
