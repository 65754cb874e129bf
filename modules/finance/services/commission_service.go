package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/commission"
	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

// CommissionService manages the effective-dated commission rate per
// role and resolves it for payout calculations. Changing the current
// rate never touches prior versions: closed intervals keep serving
// historical lookups unchanged.
type CommissionService struct {
	repo   commission.Repository
	authz  Authorizer
	ledger ActivityRecorder
}

func NewCommissionService(repo commission.Repository, authz Authorizer, ledger ActivityRecorder) *CommissionService {
	return &CommissionService{repo: repo, authz: authz, ledger: ledger}
}

// SetCurrentRate closes the open version at effectiveFrom and opens a
// new one. Starting before the open version's start date would rewrite
// history and is rejected.
func (s *CommissionService) SetCurrentRate(ctx context.Context, role profile.Role, rate decimal.Decimal, effectiveFrom time.Time) (commission.RateVersion, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionUpdateCommissionConfig, nil); err != nil {
		return commission.RateVersion{}, err
	}
	if rate.IsNegative() {
		return commission.RateVersion{}, serrors.NewError(serrors.CodeConfigConflict, "commission rate must not be negative", "")
	}

	inserted, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (commission.RateVersion, error) {
		open, err := s.repo.GetOpen(txCtx, role)
		if err != nil {
			return commission.RateVersion{}, err
		}
		plan, err := temporal.PlanSetCurrent(open, rate, effectiveFrom)
		if err != nil {
			return commission.RateVersion{}, err
		}
		if err := s.repo.ExecutePlan(txCtx, role, plan); err != nil {
			return commission.RateVersion{}, err
		}
		return plan.Insert, nil
	})
	if err != nil {
		return commission.RateVersion{}, err
	}

	s.ledger.Record(ctx, activitylog.ActionConfigChanged, "commission_rate", &inserted.ID, map[string]string{
		"role":           string(role),
		"rate":           rate.String(),
		"effective_from": effectiveFrom.Format(time.RFC3339),
	})
	return inserted, nil
}

// RateAt resolves the rate in force for the role at the instant. A
// role with no covering version yields NOT_FOUND, never a zero rate.
// Reading the configuration directly is a finance concern; payout
// calculation goes through CalculateCommission instead.
func (s *CommissionService) RateAt(ctx context.Context, role profile.Role, at time.Time) (decimal.Decimal, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionViewCommissionConfig, nil); err != nil {
		return decimal.Decimal{}, err
	}
	return s.rateAt(ctx, role, at)
}

func (s *CommissionService) rateAt(ctx context.Context, role profile.Role, at time.Time) (decimal.Decimal, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (decimal.Decimal, error) {
		versions, err := s.repo.ListVersions(txCtx, role)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return commission.RateAt(versions, at)
	})
}

// CalculateCommission applies the rate in force at the instant to a
// deal value: value / 1,000,000 * rate. It is invoked inside already
// authorized workflows (conversion), so the config read is not gated
// here.
func (s *CommissionService) CalculateCommission(ctx context.Context, role profile.Role, dealValue decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	rate, err := s.rateAt(ctx, role, at)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return commission.Amount(dealValue, rate), nil
}

// History returns every version for the role, closed and open.
func (s *CommissionService) History(ctx context.Context, role profile.Role) ([]commission.RateVersion, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionViewCommissionConfig, nil); err != nil {
		return nil, err
	}
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]commission.RateVersion, error) {
		return s.repo.ListVersions(txCtx, role)
	})
}
