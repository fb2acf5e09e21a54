package web

import "context"

type sessionIDKey struct{}

// WithSessionID adds a shopper session ID to the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFrom retrieves the session ID from the context.
// Returns the session ID and a boolean indicating whether it was found.
func SessionIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok && id != ""
}
