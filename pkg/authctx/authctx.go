// Package authctx resolves the acting admin user from go-auth request
// metadata and converts it into the types.ActorRef used by go-notices.
package authctx

import (
	"context"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
)

const (
	textCodeActorMissing = "ACTOR_CONTEXT_MISSING"
	textCodeActorInvalid = "ACTOR_CONTEXT_INVALID"
)

// ResolveActorContext returns the actor metadata stored by go-auth middleware
// or rebuilds it from JWT claims when only claims were stored.
func ResolveActorContext(ctx context.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, missingActor("go-notices: missing request context")
	}
	if actor, ok := auth.ActorFromContext(ctx); ok && actor != nil {
		return actor, nil
	}
	if claims, ok := auth.GetClaims(ctx); ok && claims != nil {
		if actor := auth.ActorContextFromClaims(claims); actor != nil {
			return actor, nil
		}
	}
	return nil, missingActor("go-notices: auth actor context not found on request")
}

// ResolveActorContextFromRouter checks the router context before falling
// back to the request context.
func ResolveActorContextFromRouter(ctx router.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, missingActor("go-notices: missing router context")
	}
	if actor, ok := auth.ActorFromRouterContext(ctx); ok && actor != nil {
		return actor, nil
	}
	return ResolveActorContext(ctx.Context())
}

// ResolveActor returns the actor reference for the request.
func ResolveActor(ctx context.Context) (types.ActorRef, error) {
	actorCtx, err := ResolveActorContext(ctx)
	if err != nil {
		return types.ActorRef{}, err
	}
	return ActorRefFromActorContext(actorCtx)
}

// ResolveActorFromRouter mirrors ResolveActor for router transports.
func ResolveActorFromRouter(ctx router.Context) (types.ActorRef, error) {
	actorCtx, err := ResolveActorContextFromRouter(ctx)
	if err != nil {
		return types.ActorRef{}, err
	}
	return ActorRefFromActorContext(actorCtx)
}

// ActorRefFromActorContext converts the auth middleware payload into an
// ActorRef. The role falls back to the subject when empty.
func ActorRefFromActorContext(actor *auth.ActorContext) (types.ActorRef, error) {
	if actor == nil {
		return types.ActorRef{}, invalidActor("go-notices: actor context is nil")
	}
	if actor.ActorID == "" {
		return types.ActorRef{}, invalidActor("go-notices: actor context missing actor_id")
	}
	actorID, err := uuid.Parse(actor.ActorID)
	if err != nil {
		return types.ActorRef{}, errors.Wrap(err, errors.CategoryAuth, "go-notices: invalid actor_id on auth context").
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	ref := types.ActorRef{
		ID:   actorID,
		Type: actor.Role,
	}
	if ref.Type == "" && actor.Subject != "" {
		ref.Type = actor.Subject
	}
	return ref, nil
}

// WithActor stores ref on ctx the way go-auth middleware does.
func WithActor(ctx context.Context, ref types.ActorRef) context.Context {
	return auth.WithActorContext(ctx, &auth.ActorContext{
		ActorID: ref.ID.String(),
		Subject: ref.ID.String(),
		Role:    ref.Type,
	})
}

func missingActor(msg string) error {
	return errors.New(msg, errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeActorMissing)
}

func invalidActor(msg string) error {
	return errors.New(msg, errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeActorInvalid)
}
