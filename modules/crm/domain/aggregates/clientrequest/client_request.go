package clientrequest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the approval workflow position. A pending request is
// decided by its assigned team leader; only an approved request can
// become a deal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusConverted Status = "converted"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusConverted},
}

func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type ClientRequest struct {
	id              uuid.UUID
	organizationID  uuid.UUID
	ownerID         uuid.UUID
	teamLeaderID    uuid.UUID
	clientName      string
	details         string
	estimatedBudget decimal.Decimal
	status          Status
	decidedAt       *time.Time
	decidedBy       *uuid.UUID
	convertedDealID *uuid.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

func New(organizationID, ownerID, teamLeaderID uuid.UUID, clientName, details string, estimatedBudget decimal.Decimal) ClientRequest {
	return ClientRequest{
		id:              uuid.New(),
		organizationID:  organizationID,
		ownerID:         ownerID,
		teamLeaderID:    teamLeaderID,
		clientName:      strings.TrimSpace(clientName),
		details:         strings.TrimSpace(details),
		estimatedBudget: estimatedBudget,
		status:          StatusPending,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	ownerID uuid.UUID,
	teamLeaderID uuid.UUID,
	clientName string,
	details string,
	estimatedBudget decimal.Decimal,
	status Status,
	decidedAt *time.Time,
	decidedBy *uuid.UUID,
	convertedDealID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) ClientRequest {
	return ClientRequest{
		id:              id,
		organizationID:  organizationID,
		ownerID:         ownerID,
		teamLeaderID:    teamLeaderID,
		clientName:      clientName,
		details:         details,
		estimatedBudget: estimatedBudget,
		status:          status,
		decidedAt:       decidedAt,
		decidedBy:       decidedBy,
		convertedDealID: convertedDealID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (r ClientRequest) ID() uuid.UUID                    { return r.id }
func (r ClientRequest) OrganizationID() uuid.UUID        { return r.organizationID }
func (r ClientRequest) OwnerID() uuid.UUID               { return r.ownerID }
func (r ClientRequest) TeamLeaderID() uuid.UUID          { return r.teamLeaderID }
func (r ClientRequest) ClientName() string               { return r.clientName }
func (r ClientRequest) Details() string                  { return r.details }
func (r ClientRequest) EstimatedBudget() decimal.Decimal { return r.estimatedBudget }
func (r ClientRequest) Status() Status                   { return r.status }
func (r ClientRequest) DecidedAt() *time.Time            { return r.decidedAt }
func (r ClientRequest) DecidedBy() *uuid.UUID            { return r.decidedBy }
func (r ClientRequest) ConvertedDealID() *uuid.UUID      { return r.convertedDealID }
func (r ClientRequest) CreatedAt() time.Time             { return r.createdAt }
func (r ClientRequest) UpdatedAt() time.Time             { return r.updatedAt }
func (r ClientRequest) IsZero() bool                     { return r.id == uuid.Nil }

// WithDecision moves a pending request to approved or rejected and
// stamps who decided and when.
func (r ClientRequest) WithDecision(next Status, deciderID uuid.UUID, at time.Time) (ClientRequest, error) {
	if next != StatusApproved && next != StatusRejected {
		return ClientRequest{}, ErrInvalidTransition.WithDetails("%s is not a decision", next)
	}
	if !CanTransition(r.status, next) {
		return ClientRequest{}, ErrInvalidTransition.WithDetails("%s -> %s", r.status, next)
	}
	r.status = next
	r.decidedAt = &at
	r.decidedBy = &deciderID
	return r, nil
}

// WithConvertedDeal moves an approved request to converted, linking
// the produced deal.
func (r ClientRequest) WithConvertedDeal(dealID uuid.UUID) (ClientRequest, error) {
	if !CanTransition(r.status, StatusConverted) {
		return ClientRequest{}, ErrInvalidTransition.WithDetails("%s -> %s", r.status, StatusConverted)
	}
	r.status = StatusConverted
	r.convertedDealID = &dealID
	return r, nil
}

type FindParams struct {
	OwnerID      *uuid.UUID
	TeamLeaderID *uuid.UUID
	Status       Status
	Limit        int
	Offset       int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (ClientRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (ClientRequest, error)
	List(ctx context.Context, params *FindParams) ([]ClientRequest, error)
	Create(ctx context.Context, r ClientRequest) (ClientRequest, error)
	Update(ctx context.Context, r ClientRequest) error
}
