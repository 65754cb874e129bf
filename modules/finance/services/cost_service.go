package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/costentry"
	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

type CostService struct {
	repo   costentry.Repository
	authz  Authorizer
	ledger ActivityRecorder
}

func NewCostService(repo costentry.Repository, authz Authorizer, ledger ActivityRecorder) *CostService {
	return &CostService{repo: repo, authz: authz, ledger: ledger}
}

func (s *CostService) Add(ctx context.Context, category, description string, amount decimal.Decimal, incurredAt time.Time) (costentry.CostEntry, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionAddCostEntry, nil); err != nil {
		return costentry.CostEntry{}, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return costentry.CostEntry{}, err
	}
	if strings.TrimSpace(category) == "" {
		return costentry.CostEntry{}, serrors.NewError(serrors.CodeConfigConflict, "cost category is required", "")
	}
	if amount.IsNegative() {
		return costentry.CostEntry{}, serrors.NewError(serrors.CodeConfigConflict, "cost amount must not be negative", "")
	}
	if incurredAt.IsZero() {
		incurredAt = time.Now()
	}

	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (costentry.CostEntry, error) {
		return s.repo.Create(txCtx, costentry.New(actor.OrganizationID, category, description, amount, incurredAt, actor.ID))
	})
	if err != nil {
		return costentry.CostEntry{}, err
	}

	id := created.ID()
	s.ledger.Record(ctx, activitylog.ActionCreated, "cost_entry", &id, map[string]string{
		"category": created.Category(),
		"amount":   created.Amount().String(),
	})
	return created, nil
}

func (s *CostService) List(ctx context.Context, params *costentry.FindParams) ([]costentry.CostEntry, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionViewReport, nil); err != nil {
		return nil, err
	}
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]costentry.CostEntry, error) {
		return s.repo.List(txCtx, params)
	})
}
