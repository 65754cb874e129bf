package persistence

import (
	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/ledger/infrastructure/persistence/models"
)

func toDomainEntry(row *models.ActivityLog) (*activitylog.Entry, error) {
	orgID, err := uuid.Parse(row.OrganizationID)
	if err != nil {
		return nil, err
	}
	entry := &activitylog.Entry{
		ID:             row.ID,
		OrganizationID: orgID,
		Action:         row.Action,
		EntityType:     row.EntityType,
		Metadata:       row.Metadata,
		CreatedAt:      row.CreatedAt,
	}
	if row.ActorID != nil {
		actorID, err := uuid.Parse(*row.ActorID)
		if err != nil {
			return nil, err
		}
		entry.ActorID = &actorID
	}
	if row.EntityID != nil {
		entityID, err := uuid.Parse(*row.EntityID)
		if err != nil {
			return nil, err
		}
		entry.EntityID = &entityID
	}
	return entry, nil
}

func toDBEntry(entry *activitylog.Entry) *models.ActivityLog {
	row := &models.ActivityLog{
		ID:             entry.ID,
		OrganizationID: entry.OrganizationID.String(),
		Action:         entry.Action,
		EntityType:     entry.EntityType,
		Metadata:       entry.Metadata,
		CreatedAt:      entry.CreatedAt,
	}
	if entry.ActorID != nil {
		v := entry.ActorID.String()
		row.ActorID = &v
	}
	if entry.EntityID != nil {
		v := entry.EntityID.String()
		row.EntityID = &v
	}
	return row
}
