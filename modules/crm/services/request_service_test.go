package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/clientrequest"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

func newRequestFixture(authz Authorizer) (*RequestService, *memRequestRepo, *memDealRepo, profile.Profile, profile.Profile) {
	orgID := uuid.New()
	agent := profile.New(orgID, "Agent", "agent@example.com", profile.RoleSalesAgent)
	leader := profile.New(orgID, "Leader", "leader@example.com", profile.RoleTeamLeader)
	requests := newMemRequestRepo()
	deals := newMemDealRepo()
	svc := NewRequestService(
		requests,
		deals,
		newMemProfiles(agent, leader),
		authz,
		fixedRateCommissions{},
		&stubPublisher{},
		noopRecorder{},
		50,
	)
	return svc, requests, deals, agent, leader
}

func TestRequestService_ApprovalByAssignedLeader(t *testing.T) {
	svc, requests, _, agent, leader := newRequestFixture(assignedLeaderAuthz{})

	agentCtx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})
	created, err := svc.Create(agentCtx, leader.ID(), "New Capital Flat", "client wants a viewing", decimal.Zero)
	require.NoError(t, err)
	require.Equal(t, clientrequest.StatusPending, created.Status())

	leaderCtx := workflowContext(t, composables.Actor{ID: leader.ID(), Role: "team_leader", OrganizationID: agent.OrganizationID()})
	approved, err := svc.Approve(leaderCtx, created.ID())
	require.NoError(t, err)
	require.Equal(t, clientrequest.StatusApproved, approved.Status())
	require.Equal(t, leader.ID(), *approved.DecidedBy())
	require.NotNil(t, approved.DecidedAt())

	stored, err := requests.GetByID(leaderCtx, created.ID())
	require.NoError(t, err)
	require.Equal(t, clientrequest.StatusApproved, stored.Status())
}

func TestRequestService_OtherLeaderCannotDecide(t *testing.T) {
	svc, _, _, agent, leader := newRequestFixture(assignedLeaderAuthz{})

	agentCtx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})
	created, err := svc.Create(agentCtx, leader.ID(), "Client", "", decimal.Zero)
	require.NoError(t, err)

	otherCtx := workflowContext(t, composables.Actor{ID: uuid.New(), Role: "team_leader", OrganizationID: agent.OrganizationID()})
	_, err = svc.Approve(otherCtx, created.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeOutOfScope, serrors.Code(err))
}

func TestRequestService_DecisionIsFinal(t *testing.T) {
	svc, _, _, agent, leader := newRequestFixture(allowAllAuthz{})

	agentCtx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})
	created, err := svc.Create(agentCtx, leader.ID(), "Client", "", decimal.Zero)
	require.NoError(t, err)

	leaderCtx := workflowContext(t, composables.Actor{ID: leader.ID(), Role: "team_leader", OrganizationID: agent.OrganizationID()})
	_, err = svc.Reject(leaderCtx, created.ID())
	require.NoError(t, err)

	_, err = svc.Approve(leaderCtx, created.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeInvalidTransition, serrors.Code(err))
}

func TestRequestService_ConvertApprovedRequest(t *testing.T) {
	svc, requests, deals, agent, leader := newRequestFixture(allowAllAuthz{})

	agentCtx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})
	created, err := svc.Create(agentCtx, leader.ID(), "Client", "", decimal.NewFromInt(900_000))
	require.NoError(t, err)

	leaderCtx := workflowContext(t, composables.Actor{ID: leader.ID(), Role: "team_leader", OrganizationID: agent.OrganizationID()})
	_, err = svc.Approve(leaderCtx, created.ID())
	require.NoError(t, err)

	createdDeal, err := svc.ConvertToDeal(agentCtx, created.ID(), nil)
	require.NoError(t, err)
	require.True(t, createdDeal.DealValue().Equal(decimal.NewFromInt(900_000)), "got %s", createdDeal.DealValue())
	require.Equal(t, 50, createdDeal.Probability())
	require.Equal(t, agent.ID(), createdDeal.OwnerID())
	require.NotNil(t, createdDeal.SourceRequestID())
	require.Equal(t, created.ID(), *createdDeal.SourceRequestID())

	converted, err := requests.GetByID(agentCtx, created.ID())
	require.NoError(t, err)
	require.Equal(t, clientrequest.StatusConverted, converted.Status())
	require.Equal(t, createdDeal.ID(), *converted.ConvertedDealID())
	require.Len(t, deals.deals, 1)

	// Converting again is rejected and creates no second deal.
	_, err = svc.ConvertToDeal(agentCtx, created.ID(), nil)
	require.Error(t, err)
	require.Equal(t, serrors.CodeInvalidTransition, serrors.Code(err))
	require.Len(t, deals.deals, 1)
}

func TestRequestService_PendingRequestCannotConvert(t *testing.T) {
	svc, _, deals, agent, leader := newRequestFixture(allowAllAuthz{})

	agentCtx := workflowContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: agent.OrganizationID()})
	created, err := svc.Create(agentCtx, leader.ID(), "Client", "", decimal.Zero)
	require.NoError(t, err)

	value := decimal.NewFromInt(100_000)
	_, err = svc.ConvertToDeal(agentCtx, created.ID(), &value)
	require.Error(t, err)
	require.Equal(t, serrors.CodeInvalidTransition, serrors.Code(err))
	require.Empty(t, deals.deals)
}
