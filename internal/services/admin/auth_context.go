package admin

import (
	"context"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/storage"
)

// sessionKey is the context key for the signed-in operator's session.
type sessionKey struct{}

// contextWithSession returns a context carrying the operator session.
func contextWithSession(ctx context.Context, session storage.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// sessionFromContext extracts the operator session from the context.
// The boolean is false when the request is unauthenticated.
func sessionFromContext(ctx context.Context) (storage.Session, bool) {
	if ctx == nil {
		return storage.Session{}, false
	}
	session, ok := ctx.Value(sessionKey{}).(storage.Session)
	return session, ok && session.ID != ""
}
