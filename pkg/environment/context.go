package environment

import "context"

type contextKey struct{}

// WithContext adds environment to context
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context. Without one it reports
// Production, the most restrictive choice.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return Production
	}
	env, ok := ctx.Value(contextKey{}).(Environment)
	if !ok {
		return Production
	}
	return env
}
