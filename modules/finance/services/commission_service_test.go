package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/commission"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

type stubTx struct {
	pgx.Tx
}

func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func financeContext(t *testing.T, role string) context.Context {
	t.Helper()
	ctx := composables.WithActor(context.Background(), composables.Actor{
		ID:             uuid.New(),
		Role:           role,
		OrganizationID: uuid.New(),
	})
	return composables.WithTx(ctx, stubTx{})
}

type allowAllAuthz struct{}

func (allowAllAuthz) Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error {
	return nil
}

type denyAuthz struct{}

func (denyAuthz) Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error {
	return serrors.NewError(serrors.CodeRoleInsufficient, "denied", "")
}

type noopRecorder struct{}

func (noopRecorder) Record(ctx context.Context, action, entityType string, entityID *uuid.UUID, metadata any) {
}

type memCommissionRepo struct {
	versions map[profile.Role][]commission.RateVersion
}

func newMemCommissionRepo() *memCommissionRepo {
	return &memCommissionRepo{versions: map[profile.Role][]commission.RateVersion{}}
}

func (r *memCommissionRepo) ListVersions(ctx context.Context, role profile.Role) ([]commission.RateVersion, error) {
	return r.versions[role], nil
}

func (r *memCommissionRepo) GetOpen(ctx context.Context, role profile.Role) (*commission.RateVersion, error) {
	for _, v := range r.versions[role] {
		if v.Open() {
			open := v
			return &open, nil
		}
	}
	return nil, nil
}

func (r *memCommissionRepo) ExecutePlan(ctx context.Context, role profile.Role, plan temporal.Plan[decimal.Decimal]) error {
	if plan.CloseID != nil {
		for i, v := range r.versions[role] {
			if v.ID == *plan.CloseID {
				closeAt := plan.CloseAt
				r.versions[role][i].EffectiveTo = &closeAt
			}
		}
	}
	r.versions[role] = append(r.versions[role], plan.Insert)
	return nil
}

func newCommissionFixture() (*CommissionService, *memCommissionRepo) {
	repo := newMemCommissionRepo()
	return NewCommissionService(repo, allowAllAuthz{}, noopRecorder{}), repo
}

func TestCommissionService_CalculatePerMillionRate(t *testing.T) {
	svc, _ := newCommissionFixture()
	ctx := financeContext(t, "finance")

	effective := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(6000), effective)
	require.NoError(t, err)

	// A 2,500,000 EGP deal at 6,000 per million pays 15,000.
	got, err := svc.CalculateCommission(ctx, profile.RoleSalesAgent, decimal.NewFromInt(2_500_000), effective.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.NewFromInt(15_000)), "got %s", got)
}

func TestCommissionService_UnconfiguredRoleIsNotFound(t *testing.T) {
	svc, _ := newCommissionFixture()
	ctx := financeContext(t, "finance")

	_, err := svc.RateAt(ctx, profile.RoleTeamLeader, time.Now())
	require.Error(t, err)
	require.Equal(t, serrors.CodeNotFound, serrors.Code(err))
}

func TestCommissionService_HistoricalLookupsSurviveRateChange(t *testing.T) {
	svc, repo := newCommissionFixture()
	ctx := financeContext(t, "finance")

	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(6000), jan)
	require.NoError(t, err)
	_, err = svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(8000), jun)
	require.NoError(t, err)

	require.Len(t, repo.versions[profile.RoleSalesAgent], 2)

	march, err := svc.RateAt(ctx, profile.RoleSalesAgent, jan.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.True(t, march.Equal(decimal.NewFromInt(6000)))

	july, err := svc.RateAt(ctx, profile.RoleSalesAgent, jun.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.True(t, july.Equal(decimal.NewFromInt(8000)))
}

func TestCommissionService_RejectsHistoryRewrite(t *testing.T) {
	svc, _ := newCommissionFixture()
	ctx := financeContext(t, "finance")

	jun := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(6000), jun)
	require.NoError(t, err)

	_, err = svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(7000), jun.AddDate(0, -1, 0))
	require.Error(t, err)
	require.Equal(t, serrors.CodeConfigConflict, serrors.Code(err))
}

func TestCommissionService_RejectsNegativeRate(t *testing.T) {
	svc, _ := newCommissionFixture()
	ctx := financeContext(t, "finance")

	_, err := svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(-1), time.Now())
	require.Error(t, err)
	require.Equal(t, serrors.CodeConfigConflict, serrors.Code(err))
}

func TestCommissionService_SetRequiresFinanceRole(t *testing.T) {
	repo := newMemCommissionRepo()
	svc := NewCommissionService(repo, denyAuthz{}, noopRecorder{})
	ctx := financeContext(t, "sales_agent")

	_, err := svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(6000), time.Now())
	require.Error(t, err)
	require.Equal(t, serrors.CodeRoleInsufficient, serrors.Code(err))
	require.Empty(t, repo.versions[profile.RoleSalesAgent])
}

func TestCommissionService_ConfigReadsRequireFinanceRole(t *testing.T) {
	repo := newMemCommissionRepo()
	svc := NewCommissionService(repo, denyAuthz{}, noopRecorder{})
	ctx := financeContext(t, "sales_agent")

	_, err := svc.RateAt(ctx, profile.RoleSalesAgent, time.Now())
	require.Error(t, err)
	require.Equal(t, serrors.CodeRoleInsufficient, serrors.Code(err))

	_, err = svc.History(ctx, profile.RoleSalesAgent)
	require.Error(t, err)
	require.Equal(t, serrors.CodeRoleInsufficient, serrors.Code(err))
}

func TestCommissionService_CalculateStaysOpenToWorkflows(t *testing.T) {
	repo := newMemCommissionRepo()
	svc := NewCommissionService(repo, allowAllAuthz{}, noopRecorder{})
	ctx := financeContext(t, "finance")
	_, err := svc.SetCurrentRate(ctx, profile.RoleSalesAgent, decimal.NewFromInt(6000), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Conversion runs under the converting agent, not a finance role.
	denied := NewCommissionService(repo, denyAuthz{}, noopRecorder{})
	agentCtx := financeContext(t, "sales_agent")
	value, err := denied.CalculateCommission(agentCtx, profile.RoleSalesAgent, decimal.NewFromInt(1_000_000), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, value.Equal(decimal.NewFromInt(6_000)), "got %s", value)
}
