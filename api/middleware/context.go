package middleware

import (
	"context"

	"github.com/angelmondragon/kasir-pos/internal/session"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the session resolved for the request, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return v
	}
	return nil
}

// SessionIDFromContext returns the id of the request's session, or "".
func SessionIDFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.ID
	}
	return ""
}

// WithSession injects a resolved session into the context.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, s)
}
