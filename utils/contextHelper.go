package utils

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmdatafocus/dailycash_backend/appctx"
)

// Alias the shared context key type so existing code keeps working.
type contextKey = appctx.ContextKey

var (
	ContextKeySession       = appctx.ContextKeySession
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyUserName      = appctx.ContextKeyUserName
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

// DefaultActorName is recorded in the audit trail when no operator is known.
const DefaultActorName = "Sistema"

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetUserNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUserName)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetSessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := appctx.Get[*Session](ctx, ContextKeySession)
	return s, ok && s != nil
}

// ActorFromContext returns the display name used for audit entries.
func ActorFromContext(ctx context.Context) string {
	if name, ok := GetUserNameFromContext(ctx); ok && name != "" {
		return name
	}
	if username, ok := GetUsernameFromContext(ctx); ok && username != "" {
		return username
	}
	return DefaultActorName
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetUserNameInContext(ctx context.Context, userName string) context.Context {
	return appctx.Set(ctx, ContextKeyUserName, userName)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

// SetSessionInContext stores the session and the identity fields derived from it.
func SetSessionInContext(ctx context.Context, session *Session) context.Context {
	ctx = appctx.Set(ctx, ContextKeySession, session)
	ctx = SetUsernameInContext(ctx, session.Username)
	return SetUserNameInContext(ctx, session.Name)
}

func NewCorrelationId() string {
	return uuid.NewString()
}
