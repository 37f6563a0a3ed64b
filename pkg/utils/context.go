package utils

import (
	"context"
)

type contextKey string

const (
	UserKey  contextKey = "user"
	TokenKey contextKey = "token"
)

// SetUserContext stores the authenticated user and the raw token it presented.
func SetUserContext[U any](ctx context.Context, user *U, token string) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, TokenKey, token)
	return ctx
}

// GetUserFromContext returns the authenticated user, or false for anonymous requests.
func GetUserFromContext[U any](ctx context.Context) (*U, bool) {
	user, ok := ctx.Value(UserKey).(*U)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// GetTokenFromContext returns the raw bearer token of the request.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

// IsAuthenticated reports whether a user was attached to ctx.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := GetTokenFromContext(ctx)
	return ok && ctx.Value(UserKey) != nil
}
