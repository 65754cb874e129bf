package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Lead struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Phone           string
	Source          string
	EstimatedBudget decimal.Decimal
	Status          string
	ContactedAt     *time.Time
	QualifiedAt     *time.Time
	ConvertedAt     *time.Time
	LostAt          *time.Time
	ConvertedDealID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ClientRequest struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	OwnerID         uuid.UUID
	TeamLeaderID    uuid.UUID
	ClientName      string
	Details         string
	EstimatedBudget decimal.Decimal
	Status          string
	DecidedAt       *time.Time
	DecidedBy       *uuid.UUID
	ConvertedDealID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Deal struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	OwnerID         uuid.UUID
	ClientName      string
	Stage           string
	DealValue       decimal.Decimal
	CommissionValue decimal.Decimal
	Probability     int
	SourceLeadID    *uuid.UUID
	SourceRequestID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
