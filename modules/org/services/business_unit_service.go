package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/businessunit"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/eventbus"
)

const businessUnitEntityType = "business_unit"

type BusinessUnitService struct {
	repo      businessunit.Repository
	authz     *AuthzService
	publisher eventbus.EventBus
	ledger    ActivityRecorder
}

func NewBusinessUnitService(
	repo businessunit.Repository,
	authz *AuthzService,
	publisher eventbus.EventBus,
	ledger ActivityRecorder,
) *BusinessUnitService {
	return &BusinessUnitService{
		repo:      repo,
		authz:     authz,
		publisher: publisher,
		ledger:    ledger,
	}
}

func (s *BusinessUnitService) GetByID(ctx context.Context, id uuid.UUID) (businessunit.BusinessUnit, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (businessunit.BusinessUnit, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *BusinessUnitService) GetAll(ctx context.Context) ([]businessunit.BusinessUnit, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]businessunit.BusinessUnit, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *BusinessUnitService) Create(ctx context.Context, name string, leaderID *uuid.UUID) (businessunit.BusinessUnit, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return businessunit.BusinessUnit{}, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return businessunit.BusinessUnit{}, err
	}

	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (businessunit.BusinessUnit, error) {
		return s.repo.Create(txCtx, businessunit.New(actor.OrganizationID, name, leaderID))
	})
	if err != nil {
		return businessunit.BusinessUnit{}, err
	}

	id := created.ID()
	s.ledger.Record(ctx, activitylog.ActionCreated, businessUnitEntityType, &id, map[string]string{
		"name": created.Name(),
	})
	s.publisher.Publish(&businessunit.CreatedEvent{Result: created})
	return created, nil
}

// AssignManager adds the unit to a sales manager's managed set.
func (s *BusinessUnitService) AssignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return err
	}

	err := composables.InOrgTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, businessUnitID); err != nil {
			return err
		}
		return s.repo.AssignManager(txCtx, businessUnitID, managerID)
	})
	if err != nil {
		return err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, businessUnitEntityType, &businessUnitID, map[string]string{
		"manager_id": managerID.String(),
		"change":     "manager_assigned",
	})
	return nil
}

func (s *BusinessUnitService) UnassignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return err
	}

	err := composables.InOrgTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, businessUnitID); err != nil {
			return err
		}
		return s.repo.UnassignManager(txCtx, businessUnitID, managerID)
	})
	if err != nil {
		return err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, businessUnitEntityType, &businessUnitID, map[string]string{
		"manager_id": managerID.String(),
		"change":     "manager_unassigned",
	})
	return nil
}
