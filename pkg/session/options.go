package session

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring the Manager
type Option func(*options)

type options struct {
	validity     time.Duration
	logger       *slog.Logger
	now          func() time.Time
	errorHandler ErrorHandler
}

// ErrorHandler writes the response for a request whose session could not be
// resolved, or whose handler scope failed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithValidity sets how far each resolution extends the session
func WithValidity(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.validity = d
		}
	}
}

// WithLogger supplies the logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithErrorHandler overrides how Middleware answers failed requests
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		if h != nil {
			o.errorHandler = h
		}
	}
}
