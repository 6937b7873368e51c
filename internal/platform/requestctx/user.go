// Package requestctx carries the signed-in identity through request contexts.
package requestctx

import "context"

// userIDContextKey is the context key for authenticated user identity.
type userIDContextKey struct{}

// sessionContextKey is the context key for the verified dashboard session.
type sessionContextKey struct{}

// Session is the verified identity handed to protected pages.
type Session struct {
	UserID string
	Name   string
	Email  string
}

// WithUserID stores a user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the user identifier stored in context.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userIDContextKey{}).(string)
	return value
}

// WithSession stores the verified session and its user id in context.
func WithSession(ctx context.Context, session Session) context.Context {
	ctx = WithUserID(ctx, session.UserID)
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the verified session, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	session, ok := ctx.Value(sessionContextKey{}).(Session)
	if !ok || session.UserID == "" {
		return Session{}, false
	}
	return session, true
}
