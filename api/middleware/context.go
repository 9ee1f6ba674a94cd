package middleware

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/internal/workspace"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type ctxKey int

const (
	workspaceKey ctxKey = iota
	sessionKey
	actorKey
)

// Actor is the signed-in user a request acts for.
type Actor struct {
	UserID string
	Role   enums.UserRole
}

// WithWorkspace attaches ws and remembers its id as the request's session.
func WithWorkspace(ctx context.Context, ws *workspace.Workspace) context.Context {
	ctx = context.WithValue(ctx, workspaceKey, ws)
	if ws == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, ws.ID)
}

func WorkspaceFromContext(ctx context.Context) *workspace.Workspace {
	ws, _ := ctx.Value(workspaceKey).(*workspace.Workspace)
	return ws
}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext reports false on routes that did not pass through Auth.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok && actor.UserID != ""
}

func UserIDFromContext(ctx context.Context) string {
	actor, _ := ActorFromContext(ctx)
	return actor.UserID
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	actor, _ := ActorFromContext(ctx)
	return actor.Role
}
