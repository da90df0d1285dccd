package auth

import "context"

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	actor, ok := ctx.Value(actorKey{}).(string)

	return actor, ok && actor != ""
}

// ContextIdentity resolves actors from the request context.
type ContextIdentity struct{}

// Actor implements settings.Identity.
func (ContextIdentity) Actor(ctx context.Context) (string, bool) {
	return ActorFromContext(ctx)
}
