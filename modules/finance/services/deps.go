package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/org/permissions"
)

// Authorizer is the slice of the org module's authorization service the
// finance services depend on.
type Authorizer interface {
	Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error
}

// ActivityRecorder appends audit entries; recording never fails the
// recorded action.
type ActivityRecorder interface {
	Record(ctx context.Context, action, entityType string, entityID *uuid.UUID, metadata any)
}
