package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

func newDealFixture() (*DealService, *memDealRepo, profile.Profile) {
	orgID := uuid.New()
	agent := profile.New(orgID, "Agent", "agent@example.com", profile.RoleSalesAgent)
	deals := newMemDealRepo()
	svc := NewDealService(deals, allowAllAuthz{}, &stubPublisher{}, noopRecorder{})
	return svc, deals, agent
}

func TestDealService_StageMovesFreely(t *testing.T) {
	svc, _, agent := newDealFixture()
	ctx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})

	created, err := svc.Create(ctx, "Client", deal.StageProspecting, decimal.NewFromInt(800_000), 20, nil)
	require.NoError(t, err)

	// Forward, then back again: the stage is descriptive, not a workflow.
	for _, stage := range []string{"won", "negotiation", "contract_sent", "prospecting"} {
		updated, err := svc.Update(ctx, created.ID(), &deal.UpdateDTO{Stage: &stage})
		require.NoError(t, err)
		require.Equal(t, deal.Stage(stage), updated.Stage())
	}
}

func TestDealService_ProbabilityRangeEnforced(t *testing.T) {
	svc, deals, agent := newDealFixture()
	ctx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})

	_, err := svc.Create(ctx, "Client", deal.StageQualified, decimal.NewFromInt(100_000), 101, nil)
	require.Error(t, err)
	require.Equal(t, serrors.CodeConfigConflict, serrors.Code(err))
	require.Empty(t, deals.deals)

	created, err := svc.Create(ctx, "Client", deal.StageQualified, decimal.NewFromInt(100_000), 50, nil)
	require.NoError(t, err)

	bad := -1
	_, err = svc.Update(ctx, created.ID(), &deal.UpdateDTO{Probability: &bad})
	require.Error(t, err)
	require.Equal(t, serrors.CodeConfigConflict, serrors.Code(err))
}

func TestDealService_DeleteIsRecordedAndGone(t *testing.T) {
	svc, deals, agent := newDealFixture()
	ctx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})

	created, err := svc.Create(ctx, "Client", deal.StageQualified, decimal.NewFromInt(100_000), 50, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID()))
	require.Empty(t, deals.deals)

	err = svc.Delete(ctx, created.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeNotFound, serrors.Code(err))
}
