package session

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/authsession/pkg/logger"
)

// DefaultErrorHandler answers every session failure with the same 401 so an
// absent id cannot be told apart from an expired or disabled one.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsUnauthorized(err) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// RequireSession runs next inside a Use scope and denies requests without a
// usable session.
func (m *Manager[C]) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served := false
		err := m.Use(r.Context(), r, func(ctx context.Context, _ *Session[C]) error {
			served = true
			next.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
		if err == nil {
			return
		}
		if served {
			// Response is already written; cleanup failures are only logged
			m.logger.ErrorContext(r.Context(), "session scope cleanup failed", logger.Error(err))
			return
		}

		m.logFailure(r, err)
		m.errorHandler(w, r, err)
	})
}

// Middleware runs next inside a Use scope when a usable session is presented
// and continues without one otherwise. Store failures are not hidden.
func (m *Manager[C]) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served := false
		err := m.Use(r.Context(), r, func(ctx context.Context, _ *Session[C]) error {
			served = true
			next.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
		switch {
		case err == nil:
		case served:
			m.logger.ErrorContext(r.Context(), "session scope cleanup failed", logger.Error(err))
		case IsUnauthorized(err):
			next.ServeHTTP(w, r)
		default:
			m.logFailure(r, err)
			m.errorHandler(w, r, err)
		}
	})
}

func (m *Manager[C]) logFailure(r *http.Request, err error) {
	if IsUnauthorized(err) {
		m.logger.WarnContext(r.Context(), "session assertion failed", logger.Reason(err.Error()))
		return
	}
	m.logger.ErrorContext(r.Context(), "session resolution failed", logger.Error(err))
}
