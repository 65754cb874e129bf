package services

import (
	"context"

	"github.com/google/uuid"
)

// ActivityRecorder is the slice of the ledger service the org services
// depend on. Recording never fails the recorded action.
type ActivityRecorder interface {
	Record(ctx context.Context, action, entityType string, entityID *uuid.UUID, metadata any)
}
