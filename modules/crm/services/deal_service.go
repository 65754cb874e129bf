package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/eventbus"
)

const dealEntityType = "deal"

type DealService struct {
	repo      deal.Repository
	authz     Authorizer
	publisher eventbus.EventBus
	ledger    ActivityRecorder
}

func NewDealService(repo deal.Repository, authz Authorizer, publisher eventbus.EventBus, ledger ActivityRecorder) *DealService {
	return &DealService{
		repo:      repo,
		authz:     authz,
		publisher: publisher,
		ledger:    ledger,
	}
}

// GetByID returns the deal only when its owner sits in the actor's
// resolved scope.
func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (deal.Deal, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (deal.Deal, error) {
		found, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return deal.Deal{}, err
		}
		owner := found.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionViewDeal, &owner); err != nil {
			return deal.Deal{}, err
		}
		return found, nil
	})
}

// List filters the result down to owners the actor may view.
func (s *DealService) List(ctx context.Context, params *deal.FindParams) ([]deal.Deal, error) {
	visible, err := s.authz.VisibleOwners(ctx, permissions.ActionViewDeal)
	if err != nil {
		return nil, err
	}
	found, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]deal.Deal, error) {
		return s.repo.List(txCtx, params)
	})
	if err != nil {
		return nil, err
	}
	out := make([]deal.Deal, 0, len(found))
	for _, d := range found {
		if visible.Contains(d.OwnerID()) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *DealService) Create(ctx context.Context, clientName string, stage deal.Stage, value decimal.Decimal, probability int, ownerID *uuid.UUID) (deal.Deal, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return deal.Deal{}, err
	}
	owner := actor.ID
	if ownerID != nil {
		owner = *ownerID
	}
	if err := s.authz.Authorize(ctx, permissions.ActionCreateDeal, &owner); err != nil {
		return deal.Deal{}, err
	}
	if probability < 0 || probability > 100 {
		return deal.Deal{}, deal.ErrInvalidProbability.WithDetails("got %d", probability)
	}

	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (deal.Deal, error) {
		return s.repo.Create(txCtx, deal.New(actor.OrganizationID, owner, clientName, stage, value, probability))
	})
	if err != nil {
		return deal.Deal{}, err
	}

	id := created.ID()
	s.ledger.Record(ctx, activitylog.ActionCreated, dealEntityType, &id, map[string]string{
		"client_name": created.ClientName(),
		"stage":       string(created.Stage()),
		"deal_value":  created.DealValue().String(),
	})
	s.publisher.Publish(&deal.CreatedEvent{Result: created})
	return created, nil
}

// Update edits any deal field, stage included. The deal stage is
// descriptive, so there is no transition check here.
func (s *DealService) Update(ctx context.Context, id uuid.UUID, dto *deal.UpdateDTO) (deal.Deal, error) {
	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (deal.Deal, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return deal.Deal{}, err
		}
		owner := existing.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionUpdateDeal, &owner); err != nil {
			return deal.Deal{}, err
		}
		next, err := dto.Apply(existing)
		if err != nil {
			return deal.Deal{}, err
		}
		if err := s.repo.Update(txCtx, next); err != nil {
			return deal.Deal{}, err
		}
		return next, nil
	})
	if err != nil {
		return deal.Deal{}, err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, dealEntityType, &id, map[string]string{
		"stage": string(updated.Stage()),
	})
	s.publisher.Publish(&deal.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (deal.Deal, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return deal.Deal{}, err
		}
		owner := existing.OwnerID()
		if err := s.authz.Authorize(txCtx, permissions.ActionDeleteDeal, &owner); err != nil {
			return deal.Deal{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return deal.Deal{}, err
		}
		return existing, nil
	})
	if err != nil {
		return err
	}

	s.ledger.Record(ctx, activitylog.ActionDeleted, dealEntityType, &id, nil)
	s.publisher.Publish(&deal.DeletedEvent{Result: deleted})
	return nil
}
