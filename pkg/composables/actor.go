package composables

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/pkg/constants"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

// Actor is the authenticated identity tuple supplied by the external
// identity provider. The core trusts it as given; role semantics are
// interpreted by the org module.
type Actor struct {
	ID             uuid.UUID
	Role           string
	OrganizationID uuid.UUID
}

var ErrNoActor = serrors.NewError(serrors.CodeUnauthenticated, "no actor in context", "")

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, constants.ActorKey, actor)
}

func UseActor(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(constants.ActorKey).(Actor)
	if !ok || actor.ID == uuid.Nil {
		return Actor{}, ErrNoActor
	}
	return actor, nil
}

// UseOrgID returns the acting organization. Every query in the system
// is implicitly scoped to it.
func UseOrgID(ctx context.Context) (uuid.UUID, error) {
	actor, err := UseActor(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if actor.OrganizationID == uuid.Nil {
		return uuid.Nil, ErrNoActor.WithDetails("actor has no organization")
	}
	return actor.OrganizationID, nil
}
