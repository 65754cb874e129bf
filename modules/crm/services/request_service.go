package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/clientrequest"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/eventbus"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

const requestEntityType = "client_request"

// RequestService runs the approval workflow. A pending request is
// decided by its assigned team leader (or a higher role over the
// owner); only an approved request converts into a deal.
type RequestService struct {
	repo        clientrequest.Repository
	deals       deal.Repository
	profiles    ProfileDirectory
	authz       Authorizer
	commissions CommissionCalculator
	publisher   eventbus.EventBus
	ledger      ActivityRecorder
	probability int
}

func NewRequestService(
	repo clientrequest.Repository,
	deals deal.Repository,
	profiles ProfileDirectory,
	authz Authorizer,
	commissions CommissionCalculator,
	publisher eventbus.EventBus,
	ledger ActivityRecorder,
	probability int,
) *RequestService {
	return &RequestService{
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

// GetByID returns the request when the owner is in the actor's scope,
// or when the actor is the leader the request is routed to.
func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (clientrequest.ClientRequest, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (clientrequest.ClientRequest, error) {
		found, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return clientrequest.ClientRequest{}, err
		}
		if actor.ID == found.TeamLeaderID() {
			if err := s.authz.Authorize(txCtx, permissions.ActionViewRequest, nil); err != nil {
				return clientrequest.ClientRequest{}, err
			}
			return found, nil
		}
		owner := found.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionViewRequest, &owner); err != nil {
			return clientrequest.ClientRequest{}, err
		}
		return found, nil
	})
}

// List filters the result down to owners the actor may view, plus the
// requests routed to the actor for decision.
func (s *RequestService) List(ctx context.Context, params *clientrequest.FindParams) ([]clientrequest.ClientRequest, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, err
	}
	visible, err := s.authz.VisibleOwners(ctx, permissions.ActionViewRequest)
	if err != nil {
		return nil, err
	}
	found, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]clientrequest.ClientRequest, error) {
		return s.repo.List(txCtx, params)
	})
	if err != nil {
		return nil, err
	}
	out := make([]clientrequest.ClientRequest, 0, len(found))
	for _, req := range found {
		if visible.Contains(req.OwnerID()) || req.TeamLeaderID() == actor.ID {
			out = append(out, req)
		}
	}
	return out, nil
}

// Create files a request owned by the actor and routed to the given
// team leader for decision.
func (s *RequestService) Create(ctx context.Context, teamLeaderID uuid.UUID, clientName, details string, estimatedBudget decimal.Decimal) (clientrequest.ClientRequest, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}
	if err := s.authz.Authorize(ctx, permissions.ActionCreateRequest, nil); err != nil {
		return clientrequest.ClientRequest{}, err
	}

	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (clientrequest.ClientRequest, error) {
		return s.repo.Create(txCtx, clientrequest.New(actor.OrganizationID, actor.ID, teamLeaderID, clientName, details, estimatedBudget))
	})
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}

	id := created.ID()
	s.ledger.Record(ctx, activitylog.ActionCreated, requestEntityType, &id, map[string]string{
		"client_name":    created.ClientName(),
		"team_leader_id": created.TeamLeaderID().String(),
	})
	s.publisher.Publish(&clientrequest.CreatedEvent{Result: created})
	return created, nil
}

func (s *RequestService) Approve(ctx context.Context, id uuid.UUID) (clientrequest.ClientRequest, error) {
	return s.decide(ctx, id, clientrequest.StatusApproved, permissions.ActionApproveRequest, activitylog.ActionApproved)
}

func (s *RequestService) Reject(ctx context.Context, id uuid.UUID) (clientrequest.ClientRequest, error) {
	return s.decide(ctx, id, clientrequest.StatusRejected, permissions.ActionRejectRequest, activitylog.ActionRejected)
}

func (s *RequestService) decide(ctx context.Context, id uuid.UUID, next clientrequest.Status, action permissions.Action, ledgerAction string) (clientrequest.ClientRequest, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}

	decided, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (clientrequest.ClientRequest, error) {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return clientrequest.ClientRequest{}, err
		}
		if err := s.authz.AuthorizeRequestDecision(txCtx, action, existing.TeamLeaderID(), existing.OwnerID()); err != nil {
			return clientrequest.ClientRequest{}, err
		}
		moved, err := existing.WithDecision(next, actor.ID, time.Now())
		if err != nil {
			return clientrequest.ClientRequest{}, err
		}
		if err := s.repo.Update(txCtx, moved); err != nil {
			return clientrequest.ClientRequest{}, err
		}
		return moved, nil
	})
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}

	s.ledger.Record(ctx, ledgerAction, requestEntityType, &id, map[string]string{
		"status": string(decided.Status()),
	})
	s.publisher.Publish(&clientrequest.DecidedEvent{Result: decided})
	return decided, nil
}

// ConvertToDeal turns an approved request into a deal exactly once.
// The deal value is seeded from the request's estimated budget unless
// an override is given.
func (s *RequestService) ConvertToDeal(ctx context.Context, id uuid.UUID, override *decimal.Decimal) (deal.Deal, error) {
	var converted clientrequest.ClientRequest
	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (deal.Deal, error) {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return deal.Deal{}, err
		}
		owner := existing.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionConvertRequest, &owner); err != nil {
			return deal.Deal{}, err
		}
		if !clientrequest.CanTransition(existing.Status(), clientrequest.StatusConverted) {
			return deal.Deal{}, clientrequest.ErrInvalidTransition.WithDetails("%s -> %s", existing.Status(), clientrequest.StatusConverted)
		}

		dealValue := existing.EstimatedBudget()
		if override != nil {
			dealValue = *override
		}
		if dealValue.IsNegative() {
			return deal.Deal{}, serrors.NewError(serrors.CodeConfigConflict, "deal value must not be negative", "")
		}

		now := time.Now()
		commissionValue, err := s.commissionFor(txCtx, owner, dealValue, now)
		if err != nil {
			return deal.Deal{}, err
		}

		newDeal := deal.New(existing.OrganizationID(), owner, existing.ClientName(), deal.StageQualified, dealValue, s.probability).
			WithSourceRequest(existing.ID()).
			WithCommission(commissionValue)
		createdDeal, err := s.deals.Create(txCtx, newDeal)
		if err != nil {
			return deal.Deal{}, err
		}

		converted, err = existing.WithConvertedDeal(createdDeal.ID())
		if err != nil {
			return deal.Deal{}, err
		}
		if err := s.repo.Update(txCtx, converted); err != nil {
			return deal.Deal{}, err
		}
		return createdDeal, nil
	})
	if err != nil {
		return deal.Deal{}, err
	}

	dealID := created.ID()
	s.ledger.Record(ctx, activitylog.ActionConverted, requestEntityType, &id, map[string]string{
		"deal_id":    dealID.String(),
		"deal_value": created.DealValue().String(),
	})
	s.publisher.Publish(&clientrequest.ConvertedEvent{Result: converted, DealID: dealID})
	return created, nil
}

func (s *RequestService) commissionFor(ctx context.Context, ownerID uuid.UUID, dealValue decimal.Decimal, at time.Time) (decimal.Decimal, error) {
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
