package middleware

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/auth/session"
)

type (
	sessionCtxKey struct{}
	userIDCtxKey  struct{}
)

// SessionFromContext returns the visitor session attached by Session, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := valueOf[*session.Session](ctx, sessionCtxKey{})
	return sess
}

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(orBackground(ctx), sessionCtxKey{}, sess)
}

// UserIDFromContext returns the signed-in user's id, or "" for anonymous
// visitors.
func UserIDFromContext(ctx context.Context) string {
	id, _ := valueOf[string](ctx, userIDCtxKey{})
	return id
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(orBackground(ctx), userIDCtxKey{}, userID)
}

func valueOf[T any](ctx context.Context, key any) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
