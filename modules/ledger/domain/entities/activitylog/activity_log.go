// Package activitylog is the append-only audit trail. Entries are
// immutable once written: the repository contract has no update or
// delete.
package activitylog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Common action kinds. Services may record more specific kinds; these
// cover the workflow core.
const (
	ActionCreated           = "created"
	ActionUpdated           = "updated"
	ActionDeleted           = "deleted"
	ActionStatusChanged     = "status_changed"
	ActionConverted         = "converted"
	ActionApproved          = "approved"
	ActionRejected          = "rejected"
	ActionConfigChanged     = "config_changed"
	ActionSupervisionChange = "supervision_changed"
	ActionInvited           = "invited"
)

type Entry struct {
	ID             int64
	OrganizationID uuid.UUID
	ActorID        *uuid.UUID
	Action         string
	EntityType     string
	EntityID       *uuid.UUID
	Metadata       json.RawMessage
	CreatedAt      time.Time
}

type FindParams struct {
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Entry, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, entry *Entry) error
}
