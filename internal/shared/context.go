package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context. It returns nil
// outside a session-carrying request.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// RequireSession extracts the session from context, failing with
// ErrNoSession when called outside a session scope.
func RequireSession(ctx context.Context) (*Session, error) {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}
