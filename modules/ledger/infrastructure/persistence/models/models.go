package models

import (
	"encoding/json"
	"time"
)

type ActivityLog struct {
	ID             int64
	OrganizationID string
	ActorID        *string
	Action         string
	EntityType     string
	EntityID       *string
	Metadata       json.RawMessage
	CreatedAt      time.Time
}
