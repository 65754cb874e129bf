package deal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is descriptive, not a workflow: unlike the lead funnel it may
// be edited freely in any direction.
type Stage string

const (
	StageProspecting  Stage = "prospecting"
	StageQualified    Stage = "qualified"
	StageNegotiation  Stage = "negotiation"
	StageContractSent Stage = "contract_sent"
	StageWon          Stage = "won"
	StageLost         Stage = "lost"
)

func ParseStage(v string) (Stage, error) {
	s := Stage(strings.TrimSpace(strings.ToLower(v)))
	switch s {
	case StageProspecting, StageQualified, StageNegotiation, StageContractSent, StageWon, StageLost:
		return s, nil
	}
	return "", ErrUnknownStage.WithDetails("unknown stage %q", v)
}

type Deal struct {
	id              uuid.UUID
	organizationID  uuid.UUID
	ownerID         uuid.UUID
	clientName      string
	stage           Stage
	dealValue       decimal.Decimal
	commissionValue decimal.Decimal
	probability     int
	sourceLeadID    *uuid.UUID
	sourceRequestID *uuid.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

func New(
	organizationID uuid.UUID,
	ownerID uuid.UUID,
	clientName string,
	stage Stage,
	dealValue decimal.Decimal,
	probability int,
) Deal {
	return Deal{
		id:             uuid.New(),
		organizationID: organizationID,
		ownerID:        ownerID,
		clientName:     strings.TrimSpace(clientName),
		stage:          stage,
		dealValue:      dealValue,
		probability:    probability,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	ownerID uuid.UUID,
	clientName string,
	stage Stage,
	dealValue decimal.Decimal,
	commissionValue decimal.Decimal,
	probability int,
	sourceLeadID *uuid.UUID,
	sourceRequestID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Deal {
	return Deal{
		id:              id,
		organizationID:  organizationID,
		ownerID:         ownerID,
		clientName:      clientName,
		stage:           stage,
		dealValue:       dealValue,
		commissionValue: commissionValue,
		probability:     probability,
		sourceLeadID:    sourceLeadID,
		sourceRequestID: sourceRequestID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (d Deal) ID() uuid.UUID                    { return d.id }
func (d Deal) OrganizationID() uuid.UUID        { return d.organizationID }
func (d Deal) OwnerID() uuid.UUID               { return d.ownerID }
func (d Deal) ClientName() string               { return d.clientName }
func (d Deal) Stage() Stage                     { return d.stage }
func (d Deal) DealValue() decimal.Decimal       { return d.dealValue }
func (d Deal) CommissionValue() decimal.Decimal { return d.commissionValue }
func (d Deal) Probability() int                 { return d.probability }
func (d Deal) SourceLeadID() *uuid.UUID         { return d.sourceLeadID }
func (d Deal) SourceRequestID() *uuid.UUID      { return d.sourceRequestID }
func (d Deal) CreatedAt() time.Time             { return d.createdAt }
func (d Deal) UpdatedAt() time.Time             { return d.updatedAt }
func (d Deal) IsZero() bool                     { return d.id == uuid.Nil }

func (d Deal) WithStage(stage Stage) Deal {
	d.stage = stage
	return d
}

func (d Deal) WithValue(value decimal.Decimal) Deal {
	d.dealValue = value
	return d
}

func (d Deal) WithCommission(value decimal.Decimal) Deal {
	d.commissionValue = value
	return d
}

func (d Deal) WithProbability(probability int) Deal {
	d.probability = probability
	return d
}

func (d Deal) WithClientName(name string) Deal {
	d.clientName = strings.TrimSpace(name)
	return d
}

func (d Deal) WithSourceLead(leadID uuid.UUID) Deal {
	d.sourceLeadID = &leadID
	return d
}

func (d Deal) WithSourceRequest(requestID uuid.UUID) Deal {
	d.sourceRequestID = &requestID
	return d
}

type FindParams struct {
	OwnerID *uuid.UUID
	Stage   Stage
	Limit   int
	Offset  int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Deal, error)
	List(ctx context.Context, params *FindParams) ([]Deal, error)
	Create(ctx context.Context, d Deal) (Deal, error)
	Update(ctx context.Context, d Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
}
