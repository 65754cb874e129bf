package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/salary"
	"github.com/pipecrest/brokerage/pkg/serrors"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

type memSalaryRepo struct {
	versions map[uuid.UUID][]salary.SalaryVersion
}

func newMemSalaryRepo() *memSalaryRepo {
	return &memSalaryRepo{versions: map[uuid.UUID][]salary.SalaryVersion{}}
}

func (r *memSalaryRepo) ListVersions(ctx context.Context, employeeID uuid.UUID) ([]salary.SalaryVersion, error) {
	return r.versions[employeeID], nil
}

func (r *memSalaryRepo) GetOpen(ctx context.Context, employeeID uuid.UUID) (*salary.SalaryVersion, error) {
	for _, v := range r.versions[employeeID] {
		if v.Open() {
			open := v
			return &open, nil
		}
	}
	return nil, nil
}

func (r *memSalaryRepo) ExecutePlan(ctx context.Context, employeeID uuid.UUID, plan temporal.Plan[decimal.Decimal]) error {
	if plan.CloseID != nil {
		for i, v := range r.versions[employeeID] {
			if v.ID == *plan.CloseID {
				closeAt := plan.CloseAt
				r.versions[employeeID][i].EffectiveTo = &closeAt
			}
		}
	}
	r.versions[employeeID] = append(r.versions[employeeID], plan.Insert)
	return nil
}

func TestSalaryService_RaiseKeepsHistory(t *testing.T) {
	repo := newMemSalaryRepo()
	svc := NewSalaryService(repo, allowAllAuthz{}, noopRecorder{})
	ctx := financeContext(t, "finance")
	employeeID := uuid.New()

	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.SetCurrent(ctx, employeeID, decimal.NewFromInt(20_000), jan)
	require.NoError(t, err)
	_, err = svc.SetCurrent(ctx, employeeID, decimal.NewFromInt(25_000), apr)
	require.NoError(t, err)

	before, err := svc.SalaryAt(ctx, employeeID, jan.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.True(t, before.Equal(decimal.NewFromInt(20_000)))

	after, err := svc.SalaryAt(ctx, employeeID, apr.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.True(t, after.Equal(decimal.NewFromInt(25_000)))
}

func TestSalaryService_NoVersionIsNotFound(t *testing.T) {
	svc := NewSalaryService(newMemSalaryRepo(), allowAllAuthz{}, noopRecorder{})
	ctx := financeContext(t, "finance")

	_, err := svc.SalaryAt(ctx, uuid.New(), time.Now())
	require.Error(t, err)
	require.Equal(t, serrors.CodeNotFound, serrors.Code(err))
}

func TestSalaryService_ReadsRequireFinanceRole(t *testing.T) {
	svc := NewSalaryService(newMemSalaryRepo(), denyAuthz{}, noopRecorder{})
	ctx := financeContext(t, "sales_agent")
	employeeID := uuid.New()

	_, err := svc.SalaryAt(ctx, employeeID, time.Now())
	require.Error(t, err)
	require.Equal(t, serrors.CodeRoleInsufficient, serrors.Code(err))

	_, err = svc.History(ctx, employeeID)
	require.Error(t, err)
	require.Equal(t, serrors.CodeRoleInsufficient, serrors.Code(err))
}
