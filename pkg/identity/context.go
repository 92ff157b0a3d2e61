package identity

import "context"

type sessionContextKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext extracts the session placed by the middleware. The second
// return is false when no session is present.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*Session)
	return sess, ok && sess != nil
}

// MustFromContext is FromContext for handlers that only run behind the
// middleware; it panics when the session is absent.
func MustFromContext(ctx context.Context) *Session {
	sess, ok := FromContext(ctx)
	if !ok {
		panic("identity: no session in context")
	}
	return sess
}
