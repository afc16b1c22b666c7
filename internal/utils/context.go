package utils

import (
	"context"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

// GetUserIDFromContext returns the user id the auth middleware attached to the
// request context.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

// WithUserID attaches a user id to ctx. Used by the middleware and by tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserIDKey, userID)
}
