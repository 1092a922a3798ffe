package service

import (
	"context"
)

// IdentityProvider resolves the signed-in user for the current call. A
// false result means an anonymous session, which is a valid state and not
// an error.
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type userIDKey struct{}

// WithUserID stores the authenticated user id on a context; the auth
// middleware calls this after token verification.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// ContextIdentity reads the user id the auth middleware put on the
// request context.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
