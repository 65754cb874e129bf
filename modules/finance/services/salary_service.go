package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/salary"
	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

// SalaryService manages the effective-dated monthly salary per
// employee, with the same versioning rules as commission rates.
type SalaryService struct {
	repo   salary.Repository
	authz  Authorizer
	ledger ActivityRecorder
}

func NewSalaryService(repo salary.Repository, authz Authorizer, ledger ActivityRecorder) *SalaryService {
	return &SalaryService{repo: repo, authz: authz, ledger: ledger}
}

func (s *SalaryService) SetCurrent(ctx context.Context, employeeID uuid.UUID, amount decimal.Decimal, effectiveFrom time.Time) (salary.SalaryVersion, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionManageSalary, nil); err != nil {
		return salary.SalaryVersion{}, err
	}
	if amount.IsNegative() {
		return salary.SalaryVersion{}, serrors.NewError(serrors.CodeConfigConflict, "salary must not be negative", "")
	}

	inserted, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (salary.SalaryVersion, error) {
		open, err := s.repo.GetOpen(txCtx, employeeID)
		if err != nil {
			return salary.SalaryVersion{}, err
		}
		plan, err := temporal.PlanSetCurrent(open, amount, effectiveFrom)
		if err != nil {
			return salary.SalaryVersion{}, err
		}
		if err := s.repo.ExecutePlan(txCtx, employeeID, plan); err != nil {
			return salary.SalaryVersion{}, err
		}
		return plan.Insert, nil
	})
	if err != nil {
		return salary.SalaryVersion{}, err
	}

	s.ledger.Record(ctx, activitylog.ActionConfigChanged, "salary", &inserted.ID, map[string]string{
		"employee_id":    employeeID.String(),
		"amount":         amount.String(),
		"effective_from": effectiveFrom.Format(time.RFC3339),
	})
	return inserted, nil
}

// SalaryAt resolves the monthly amount in force for the employee at
// the instant. No covering version yields NOT_FOUND. Salary reads are
// finance data and gated the same way as salary writes.
func (s *SalaryService) SalaryAt(ctx context.Context, employeeID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionViewSalary, nil); err != nil {
		return decimal.Decimal{}, err
	}
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (decimal.Decimal, error) {
		versions, err := s.repo.ListVersions(txCtx, employeeID)
		if err != nil {
			return decimal.Decimal{}, err
		}
		v, err := temporal.ResolveAt(versions, at)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return v.Value, nil
	})
}

func (s *SalaryService) History(ctx context.Context, employeeID uuid.UUID) ([]salary.SalaryVersion, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionViewSalary, nil); err != nil {
		return nil, err
	}
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]salary.SalaryVersion, error) {
		return s.repo.ListVersions(txCtx, employeeID)
	})
}
