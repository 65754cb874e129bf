package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/clientrequest"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/lead"
	"github.com/pipecrest/brokerage/modules/org/domain/scope"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

func TestLeadService_ReadsStayInsideScope(t *testing.T) {
	orgID := uuid.New()
	me := uuid.New()
	other := uuid.New()
	mine := lead.New(orgID, me, "Mine", "", "", decimal.Zero)
	theirs := lead.New(orgID, other, "Theirs", "", "", decimal.Zero)
	svc := NewLeadService(
		newMemLeadRepo(mine, theirs),
		newMemDealRepo(),
		newMemProfiles(),
		scopedAuthz{visible: scope.New(me)},
		fixedRateCommissions{},
		&stubPublisher{},
		noopRecorder{},
		75,
	)
	ctx := workflowContext(t, composables.Actor{ID: me, Role: "sales_agent", OrganizationID: orgID})

	got, err := svc.GetByID(ctx, mine.ID())
	require.NoError(t, err)
	require.Equal(t, mine.ID(), got.ID())

	_, err = svc.GetByID(ctx, theirs.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeOutOfScope, serrors.Code(err))

	listed, err := svc.List(ctx, &lead.FindParams{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, mine.ID(), listed[0].ID())
}

func TestDealService_ReadsStayInsideScope(t *testing.T) {
	orgID := uuid.New()
	me := uuid.New()
	other := uuid.New()
	mine := deal.New(orgID, me, "Mine", deal.StageQualified, decimal.NewFromInt(100), 50)
	theirs := deal.New(orgID, other, "Theirs", deal.StageQualified, decimal.NewFromInt(200), 50)
	svc := NewDealService(
		newMemDealRepo(mine, theirs),
		scopedAuthz{visible: scope.New(me)},
		&stubPublisher{},
		noopRecorder{},
	)
	ctx := workflowContext(t, composables.Actor{ID: me, Role: "sales_agent", OrganizationID: orgID})

	_, err := svc.GetByID(ctx, theirs.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeOutOfScope, serrors.Code(err))

	listed, err := svc.List(ctx, &deal.FindParams{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, mine.ID(), listed[0].ID())
}

func TestRequestService_AssignedLeaderSeesRoutedRequests(t *testing.T) {
	orgID := uuid.New()
	agent := uuid.New()
	leader := uuid.New()
	routed := clientrequest.New(orgID, agent, leader, "Routed", "", decimal.Zero)
	elsewhere := clientrequest.New(orgID, agent, uuid.New(), "Elsewhere", "", decimal.Zero)
	svc := NewRequestService(
		newMemRequestRepo(routed, elsewhere),
		newMemDealRepo(),
		newMemProfiles(),
		scopedAuthz{visible: scope.New(leader)},
		fixedRateCommissions{},
		&stubPublisher{},
		noopRecorder{},
		50,
	)
	ctx := workflowContext(t, composables.Actor{ID: leader, Role: "team_leader", OrganizationID: orgID})

	// The routed request is readable even though its owner is outside
	// the leader's visible set.
	got, err := svc.GetByID(ctx, routed.ID())
	require.NoError(t, err)
	require.Equal(t, routed.ID(), got.ID())

	_, err = svc.GetByID(ctx, elsewhere.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeOutOfScope, serrors.Code(err))

	listed, err := svc.List(ctx, &clientrequest.FindParams{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, routed.ID(), listed[0].ID())
}
