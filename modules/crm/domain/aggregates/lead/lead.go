package lead

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lead's position in the qualification funnel. The
// funnel moves strictly forward; there is no path back from a terminal
// state or from converted.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusConverted   Status = "converted"
	StatusUnqualified Status = "unqualified"
	StatusLost        Status = "lost"
)

var transitions = map[Status][]Status{
	StatusNew:       {StatusContacted},
	StatusContacted: {StatusQualified},
	StatusQualified: {StatusConverted, StatusUnqualified, StatusLost},
}

func ParseStatus(v string) (Status, error) {
	s := Status(strings.TrimSpace(strings.ToLower(v)))
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusUnqualified, StatusLost:
		return s, nil
	}
	return "", ErrInvalidTransition.WithDetails("unknown status %q", v)
}

// CanTransition reports whether the funnel allows from -> to.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Lead struct {
	id              uuid.UUID
	organizationID  uuid.UUID
	ownerID         uuid.UUID
	name            string
	phone           string
	source          string
	estimatedBudget decimal.Decimal
	status          Status
	contactedAt     *time.Time
	qualifiedAt     *time.Time
	convertedAt     *time.Time
	lostAt          *time.Time
	convertedDealID *uuid.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

func New(organizationID, ownerID uuid.UUID, name, phone, source string, estimatedBudget decimal.Decimal) Lead {
	return Lead{
		id:              uuid.New(),
		organizationID:  organizationID,
		ownerID:         ownerID,
		name:            strings.TrimSpace(name),
		phone:           strings.TrimSpace(phone),
		source:          strings.TrimSpace(source),
		estimatedBudget: estimatedBudget,
		status:          StatusNew,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	ownerID uuid.UUID,
	name string,
	phone string,
	source string,
	estimatedBudget decimal.Decimal,
	status Status,
	contactedAt *time.Time,
	qualifiedAt *time.Time,
	convertedAt *time.Time,
	lostAt *time.Time,
	convertedDealID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Lead {
	return Lead{
		id:              id,
		organizationID:  organizationID,
		ownerID:         ownerID,
		name:            name,
		phone:           phone,
		source:          source,
		estimatedBudget: estimatedBudget,
		status:          status,
		contactedAt:     contactedAt,
		qualifiedAt:     qualifiedAt,
		convertedAt:     convertedAt,
		lostAt:          lostAt,
		convertedDealID: convertedDealID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (l Lead) ID() uuid.UUID                    { return l.id }
func (l Lead) OrganizationID() uuid.UUID        { return l.organizationID }
func (l Lead) OwnerID() uuid.UUID               { return l.ownerID }
func (l Lead) Name() string                     { return l.name }
func (l Lead) Phone() string                    { return l.phone }
func (l Lead) Source() string                   { return l.source }
func (l Lead) EstimatedBudget() decimal.Decimal { return l.estimatedBudget }
func (l Lead) Status() Status                   { return l.status }
func (l Lead) ContactedAt() *time.Time          { return l.contactedAt }
func (l Lead) QualifiedAt() *time.Time          { return l.qualifiedAt }
func (l Lead) ConvertedAt() *time.Time          { return l.convertedAt }
func (l Lead) LostAt() *time.Time               { return l.lostAt }
func (l Lead) ConvertedDealID() *uuid.UUID      { return l.convertedDealID }
func (l Lead) CreatedAt() time.Time             { return l.createdAt }
func (l Lead) UpdatedAt() time.Time             { return l.updatedAt }
func (l Lead) IsZero() bool                     { return l.id == uuid.Nil }

// WithStatus moves the lead along the funnel. A transition to the
// current status is an idempotent no-op that does not restamp any
// milestone date. Milestone dates are written once, on first entry.
func (l Lead) WithStatus(next Status, at time.Time) (Lead, error) {
	if next == l.status {
		return l, nil
	}
	if !CanTransition(l.status, next) {
		return Lead{}, ErrInvalidTransition.WithDetails("%s -> %s", l.status, next)
	}
	l.status = next
	switch next {
	case StatusContacted:
		if l.contactedAt == nil {
			l.contactedAt = &at
		}
	case StatusQualified:
		if l.qualifiedAt == nil {
			l.qualifiedAt = &at
		}
	case StatusConverted:
		if l.convertedAt == nil {
			l.convertedAt = &at
		}
	case StatusLost, StatusUnqualified:
		if l.lostAt == nil {
			l.lostAt = &at
		}
	}
	return l, nil
}

// WithConvertedDeal links the deal produced by conversion.
func (l Lead) WithConvertedDeal(dealID uuid.UUID) Lead {
	l.convertedDealID = &dealID
	return l
}

// WithDetails returns a copy with edited descriptive fields; the
// funnel position is untouched.
func (l Lead) WithDetails(name, phone, source string, estimatedBudget decimal.Decimal) Lead {
	l.name = strings.TrimSpace(name)
	l.phone = strings.TrimSpace(phone)
	l.source = strings.TrimSpace(source)
	l.estimatedBudget = estimatedBudget
	return l
}

type FindParams struct {
	OwnerID *uuid.UUID
	Status  Status
	Limit   int
	Offset  int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	// GetByIDForUpdate locks the row for the rest of the transaction so
	// that concurrent conversions serialize.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params *FindParams) ([]Lead, error)
	Create(ctx context.Context, l Lead) (Lead, error)
	Update(ctx context.Context, l Lead) error
}
