package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/scope"
	"github.com/pipecrest/brokerage/modules/org/permissions"
)

// Authorizer is the slice of the org module's authorization service the
// workflow services depend on.
type Authorizer interface {
	Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error
	AuthorizeRequestDecision(ctx context.Context, action permissions.Action, assignedLeaderID, ownerID uuid.UUID) error
	// VisibleOwners resolves the owner ids the actor may read; list
	// endpoints filter with it.
	VisibleOwners(ctx context.Context, action permissions.Action) (scope.Set, error)
}

// ActivityRecorder appends audit entries; recording never fails the
// recorded action.
type ActivityRecorder interface {
	Record(ctx context.Context, action, entityType string, entityID *uuid.UUID, metadata any)
}

// CommissionCalculator resolves the commission a deal value yields for
// a role at an instant. Implemented by the finance module.
type CommissionCalculator interface {
	CalculateCommission(ctx context.Context, role profile.Role, dealValue decimal.Decimal, at time.Time) (decimal.Decimal, error)
}

// ProfileDirectory looks up org profiles; conversion needs the owner's
// role to pick the commission rate.
type ProfileDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
}
