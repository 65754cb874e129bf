package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CommissionRate struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Role           string
	Rate           decimal.Decimal
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
	CreatedAt      time.Time
}

type Salary struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	EmployeeID     uuid.UUID
	Amount         decimal.Decimal
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
	CreatedAt      time.Time
}

type CostEntry struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Category       string
	Description    string
	Amount         decimal.Decimal
	IncurredAt     time.Time
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
}
