package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/lead"
	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/eventbus"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

const leadEntityType = "lead"

// LeadService runs the qualification funnel. Conversion is the one
// cross-aggregate operation: it creates the deal and closes the lead
// in a single transaction, exactly once per lead.
type LeadService struct {
	repo        lead.Repository
	deals       deal.Repository
	profiles    ProfileDirectory
	authz       Authorizer
	commissions CommissionCalculator
	publisher   eventbus.EventBus
	ledger      ActivityRecorder
	// probability seeded onto deals created from leads.
	probability int
}

func NewLeadService(
	repo lead.Repository,
	deals deal.Repository,
	profiles ProfileDirectory,
	authz Authorizer,
	commissions CommissionCalculator,
	publisher eventbus.EventBus,
	ledger ActivityRecorder,
	probability int,
) *LeadService {
	return &LeadService{
		repo:        repo,
		deals:       deals,
		profiles:    profiles,
		authz:       authz,
		commissions: commissions,
		publisher:   publisher,
		ledger:      ledger,
		probability: probability,
	}
}

// GetByID returns the lead only when its owner sits in the actor's
// resolved scope.
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (lead.Lead, error) {
		found, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return lead.Lead{}, err
		}
		owner := found.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionViewLead, &owner); err != nil {
			return lead.Lead{}, err
		}
		return found, nil
	})
}

// List filters the result down to owners the actor may view.
func (s *LeadService) List(ctx context.Context, params *lead.FindParams) ([]lead.Lead, error) {
	visible, err := s.authz.VisibleOwners(ctx, permissions.ActionViewLead)
	if err != nil {
		return nil, err
	}
	found, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]lead.Lead, error) {
		return s.repo.List(txCtx, params)
	})
	if err != nil {
		return nil, err
	}
	out := make([]lead.Lead, 0, len(found))
	for _, l := range found {
		if visible.Contains(l.OwnerID()) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Create registers a lead. The owner defaults to the actor; creating
// on behalf of someone else requires that owner in the actor's scope.
func (s *LeadService) Create(ctx context.Context, name, phone, source string, estimatedBudget decimal.Decimal, ownerID *uuid.UUID) (lead.Lead, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return lead.Lead{}, err
	}
	owner := actor.ID
	if ownerID != nil {
		owner = *ownerID
	}
	if err := s.authz.Authorize(ctx, permissions.ActionCreateLead, &owner); err != nil {
		return lead.Lead{}, err
	}

	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (lead.Lead, error) {
		return s.repo.Create(txCtx, lead.New(actor.OrganizationID, owner, name, phone, source, estimatedBudget))
	})
	if err != nil {
		return lead.Lead{}, err
	}

	id := created.ID()
	s.ledger.Record(ctx, activitylog.ActionCreated, leadEntityType, &id, map[string]string{
		"name":   created.Name(),
		"source": created.Source(),
	})
	s.publisher.Publish(&lead.CreatedEvent{Result: created})
	return created, nil
}

func (s *LeadService) Update(ctx context.Context, id uuid.UUID, name, phone, source string, estimatedBudget decimal.Decimal) (lead.Lead, error) {
	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (lead.Lead, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return lead.Lead{}, err
		}
		owner := existing.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionUpdateLead, &owner); err != nil {
			return lead.Lead{}, err
		}
		next := existing.WithDetails(name, phone, source, estimatedBudget)
		if err := s.repo.Update(txCtx, next); err != nil {
			return lead.Lead{}, err
		}
		return next, nil
	})
	if err != nil {
		return lead.Lead{}, err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, leadEntityType, &id, nil)
	s.publisher.Publish(&lead.UpdatedEvent{Result: updated})
	return updated, nil
}

// ChangeStatus moves the lead along the funnel. Repeating the current
// status is a no-op that neither errors nor restamps milestone dates.
// Conversion does not go through here; use ConvertToDeal.
func (s *LeadService) ChangeStatus(ctx context.Context, id uuid.UUID, next lead.Status) (lead.Lead, error) {
	if next == lead.StatusConverted {
		return lead.Lead{}, lead.ErrInvalidTransition.WithDetails("conversion requires a deal value")
	}

	var from lead.Status
	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (lead.Lead, error) {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return lead.Lead{}, err
		}
		owner := existing.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionUpdateLead, &owner); err != nil {
			return lead.Lead{}, err
		}
		from = existing.Status()
		moved, err := existing.WithStatus(next, time.Now())
		if err != nil {
			return lead.Lead{}, err
		}
		if moved.Status() == from {
			return moved, nil
		}
		if err := s.repo.Update(txCtx, moved); err != nil {
			return lead.Lead{}, err
		}
		return moved, nil
	})
	if err != nil {
		return lead.Lead{}, err
	}

	if updated.Status() != from {
		s.ledger.Record(ctx, activitylog.ActionStatusChanged, leadEntityType, &id, map[string]string{
			"from": string(from),
			"to":   string(updated.Status()),
		})
		s.publisher.Publish(&lead.StatusChangedEvent{From: from, Result: updated})
	}
	return updated, nil
}

// ConvertToDeal turns a qualified lead into a deal exactly once. The
// deal value is seeded from the lead's estimated budget unless an
// override is given. The lead row is locked for the duration, so a
// concurrent convert either waits and then fails the transition check,
// or fails first.
func (s *LeadService) ConvertToDeal(ctx context.Context, id uuid.UUID, override *decimal.Decimal) (deal.Deal, error) {
	var converted lead.Lead
	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (deal.Deal, error) {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return deal.Deal{}, err
		}
		owner := existing.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionConvertLead, &owner); err != nil {
			return deal.Deal{}, err
		}
		if existing.ConvertedDealID() != nil {
			return deal.Deal{}, lead.ErrInvalidTransition.WithDetails("lead already converted to deal %s", existing.ConvertedDealID())
		}

		dealValue := existing.EstimatedBudget()
		if override != nil {
			dealValue = *override
		}
		if dealValue.IsNegative() {
			return deal.Deal{}, serrors.NewError(serrors.CodeConfigConflict, "deal value must not be negative", "")
		}

		now := time.Now()
		moved, err := existing.WithStatus(lead.StatusConverted, now)
		if err != nil {
			return deal.Deal{}, err
		}

		commissionValue, err := s.commissionFor(txCtx, owner, dealValue, now)
		if err != nil {
			return deal.Deal{}, err
		}

		newDeal := deal.New(existing.OrganizationID(), owner, existing.Name(), deal.StageQualified, dealValue, s.probability).
			WithSourceLead(existing.ID()).
			WithCommission(commissionValue)
		createdDeal, err := s.deals.Create(txCtx, newDeal)
		if err != nil {
			return deal.Deal{}, err
		}

		converted = moved.WithConvertedDeal(createdDeal.ID())
		if err := s.repo.Update(txCtx, converted); err != nil {
			return deal.Deal{}, err
		}
		return createdDeal, nil
	})
	if err != nil {
		return deal.Deal{}, err
	}

	dealID := created.ID()
	s.ledger.Record(ctx, activitylog.ActionConverted, leadEntityType, &id, map[string]string{
		"deal_id":    dealID.String(),
		"deal_value": created.DealValue().String(),
	})
	s.publisher.Publish(&lead.ConvertedEvent{Result: converted, DealID: dealID})
	return created, nil
}

// commissionFor applies the owner's role rate. An unconfigured rate is
// not an error at conversion time: the deal starts with a zero
// commission and finance can set it later.
func (s *LeadService) commissionFor(ctx context.Context, ownerID uuid.UUID, dealValue decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	owner, err := s.profiles.GetByID(ctx, ownerID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	value, err := s.commissions.CalculateCommission(ctx, owner.Role(), dealValue, at)
	if err != nil {
		if serrors.Code(err) == serrors.CodeNotFound {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, err
	}
	return value, nil
}
