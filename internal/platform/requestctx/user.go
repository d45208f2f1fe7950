// Package requestctx carries per-request identity values through context.
package requestctx

import "context"

type userIDContextKey struct{}

type sessionScopeContextKey struct{}

// WithUserID stores an authenticated user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the authenticated user identifier, or "".
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userIDContextKey{}).(string)
	return value
}

// WithSessionScope stores the browser-session scope that owns staged state.
func WithSessionScope(ctx context.Context, scope string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionScopeContextKey{}, scope)
}

// SessionScopeFromContext returns the browser-session scope, or "".
func SessionScopeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(sessionScopeContextKey{}).(string)
	return value
}
