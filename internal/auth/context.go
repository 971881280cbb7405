package auth

import "context"

type ctxKey int

const userIDKey ctxKey = iota

// ContextWithUserID returns a copy of ctx carrying the id of the logged in user.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the id set by the auth middleware, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
