package costentry

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/pkg/serrors"
)

var ErrNotFound = serrors.NewError(serrors.CodeNotFound, "cost entry not found", "")

type CostEntry struct {
	id             uuid.UUID
	organizationID uuid.UUID
	category       string
	description    string
	amount         decimal.Decimal
	incurredAt     time.Time
	createdBy      uuid.UUID
	createdAt      time.Time
}

func New(
	organizationID uuid.UUID,
	category string,
	description string,
	amount decimal.Decimal,
	incurredAt time.Time,
	createdBy uuid.UUID,
) CostEntry {
	return CostEntry{
		id:             uuid.New(),
		organizationID: organizationID,
		category:       strings.TrimSpace(category),
		description:    strings.TrimSpace(description),
		amount:         amount,
		incurredAt:     incurredAt,
		createdBy:      createdBy,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	category string,
	description string,
	amount decimal.Decimal,
	incurredAt time.Time,
	createdBy uuid.UUID,
	createdAt time.Time,
) CostEntry {
	return CostEntry{
		id:             id,
		organizationID: organizationID,
		category:       category,
		description:    description,
		amount:         amount,
		incurredAt:     incurredAt,
		createdBy:      createdBy,
		createdAt:      createdAt,
	}
}

func (c CostEntry) ID() uuid.UUID             { return c.id }
func (c CostEntry) OrganizationID() uuid.UUID { return c.organizationID }
func (c CostEntry) Category() string          { return c.category }
func (c CostEntry) Description() string       { return c.description }
func (c CostEntry) Amount() decimal.Decimal   { return c.amount }
func (c CostEntry) IncurredAt() time.Time     { return c.incurredAt }
func (c CostEntry) CreatedBy() uuid.UUID      { return c.createdBy }
func (c CostEntry) CreatedAt() time.Time      { return c.createdAt }
func (c CostEntry) IsZero() bool              { return c.id == uuid.Nil }

type FindParams struct {
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (CostEntry, error)
	List(ctx context.Context, params *FindParams) ([]CostEntry, error)
	Create(ctx context.Context, entry CostEntry) (CostEntry, error)
}
