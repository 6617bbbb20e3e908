package session

import "context"

type sessionContextKey struct{}

// WithSession adds a session to the context
func WithSession[C any](ctx context.Context, session *Session[C]) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves a session from the context
func FromContext[C any](ctx context.Context) (*Session[C], bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session[C])
	return session, ok && session != nil
}

// MustFromContext retrieves a session from the context or panics
func MustFromContext[C any](ctx context.Context) *Session[C] {
	session, ok := FromContext[C](ctx)
	if !ok {
		panic("session: not found in context")
	}
	return session
}

// UserIDFromContext retrieves the user ID of a session carrying UserContainer
func UserIDFromContext(ctx context.Context) (string, bool) {
	session, ok := FromContext[UserContainer](ctx)
	if !ok || session.Container.UserID == "" {
		return "", false
	}
	return session.Container.UserID, true
}
