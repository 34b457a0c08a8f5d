package middleware

import (
	"context"

	"github.com/casalink-ph/casalink-backend/pkg/enums"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

type contextKey string

const (
	ctxUsername contextKey = "username"
	ctxRole     contextKey = "actor_role"
)

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

// ActorFromContext rebuilds the workflow actor the Auth middleware stored.
func ActorFromContext(ctx context.Context) types.Actor {
	return types.Actor{
		Username: UsernameFromContext(ctx),
		Role:     RoleFromContext(ctx),
	}
}

// WithActor injects an actor into the context, mirroring what Auth does.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUsername, actor.Username)
	return context.WithValue(ctx, ctxRole, actor.Role)
}
