package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID               uuid.UUID
	OrganizationID   uuid.UUID
	DisplayName      string
	Email            string
	Role             string
	BusinessUnitID   *uuid.UUID
	UnderSupervision bool
	SupervisedBy     *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Team struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	BusinessUnitID *uuid.UUID
	LeaderID       uuid.UUID
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type BusinessUnit struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	LeaderID       *uuid.UUID
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
