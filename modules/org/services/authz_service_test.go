package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

func newAuthzFixture(profiles *memProfileRepo, teams *memTeamRepo) *AuthzService {
	return NewAuthzService(NewScopeService(profiles, teams, newMemBusinessUnitRepo()))
}

func TestAuthzService_NoActorIsUnauthenticated(t *testing.T) {
	svc := newAuthzFixture(newMemProfileRepo(), newMemTeamRepo())

	err := svc.Authorize(context.Background(), permissions.ActionCreateLead, nil)
	require.Error(t, err)
	require.Equal(t, serrors.CodeUnauthenticated, serrors.Code(err))
}

func TestAuthzService_RoleBelowTableIsInsufficient(t *testing.T) {
	orgID := uuid.New()
	agent := profile.New(orgID, "Agent", "agent@example.com", profile.RoleSalesAgent)
	svc := newAuthzFixture(newMemProfileRepo(agent), newMemTeamRepo())
	ctx := testContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: orgID})

	err := svc.Authorize(ctx, permissions.ActionApproveRequest, nil)
	require.Error(t, err)
	require.Equal(t, serrors.CodeRoleInsufficient, serrors.Code(err))
}

func TestAuthzService_UnknownRoleDenies(t *testing.T) {
	orgID := uuid.New()
	svc := newAuthzFixture(newMemProfileRepo(), newMemTeamRepo())
	ctx := testContext(t, composables.Actor{ID: uuid.New(), Role: "intern", OrganizationID: orgID})

	err := svc.Authorize(ctx, permissions.ActionCreateLead, nil)
	require.Error(t, err)
	require.Equal(t, serrors.CodeRoleInsufficient, serrors.Code(err))
}

func TestAuthzService_TargetOutsideScope(t *testing.T) {
	orgID := uuid.New()
	agent := profile.New(orgID, "Agent", "agent@example.com", profile.RoleSalesAgent)
	other := profile.New(orgID, "Other", "other@example.com", profile.RoleSalesAgent)
	svc := newAuthzFixture(newMemProfileRepo(agent, other), newMemTeamRepo())
	ctx := testContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: orgID})

	otherID := other.ID()
	err := svc.Authorize(ctx, permissions.ActionUpdateLead, &otherID)
	require.Error(t, err)
	require.Equal(t, serrors.CodeOutOfScope, serrors.Code(err))

	selfID := agent.ID()
	require.NoError(t, svc.Authorize(ctx, permissions.ActionUpdateLead, &selfID))
}

func TestAuthzService_UnscopedActionSkipsScopeCheck(t *testing.T) {
	orgID := uuid.New()
	admin := profile.New(orgID, "Admin", "admin@example.com", profile.RoleAdmin)
	svc := newAuthzFixture(newMemProfileRepo(admin), newMemTeamRepo())
	ctx := testContext(t, composables.Actor{ID: admin.ID(), Role: "admin", OrganizationID: orgID})

	require.NoError(t, svc.Authorize(ctx, permissions.ActionInviteUser, nil))
}

func TestAuthzService_RequestDecisionRequiresExactAssignedLeader(t *testing.T) {
	orgID := uuid.New()
	assigned := profile.New(orgID, "Assigned", "assigned@example.com", profile.RoleTeamLeader)
	other := profile.New(orgID, "Other", "other@example.com", profile.RoleTeamLeader)
	owner := profile.New(orgID, "Owner", "owner@example.com", profile.RoleSalesAgent)

	// The owner is on the other leader's team, so the owner is in the
	// other leader's scope. Approval must still be denied: it is routed
	// to one specific leader.
	otherTeam := team.New(orgID, "Beta", other.ID(), nil)
	teams := newMemTeamRepo(otherTeam)
	require.NoError(t, teams.SetMembership(context.Background(), owner.ID(), otherTeam.ID()))

	svc := newAuthzFixture(newMemProfileRepo(assigned, other, owner), teams)

	otherCtx := testContext(t, composables.Actor{ID: other.ID(), Role: "team_leader", OrganizationID: orgID})
	err := svc.AuthorizeRequestDecision(otherCtx, permissions.ActionApproveRequest, assigned.ID(), owner.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeOutOfScope, serrors.Code(err))

	assignedCtx := testContext(t, composables.Actor{ID: assigned.ID(), Role: "team_leader", OrganizationID: orgID})
	require.NoError(t, svc.AuthorizeRequestDecision(assignedCtx, permissions.ActionApproveRequest, assigned.ID(), owner.ID()))
}

func TestAuthzService_RequestDecisionHigherRoleUsesScope(t *testing.T) {
	orgID := uuid.New()
	assigned := profile.New(orgID, "Assigned", "assigned@example.com", profile.RoleTeamLeader)
	owner := profile.New(orgID, "Owner", "owner@example.com", profile.RoleSalesAgent)
	ceo := profile.New(orgID, "CEO", "ceo@example.com", profile.RoleCEO)

	svc := newAuthzFixture(newMemProfileRepo(assigned, owner, ceo), newMemTeamRepo())
	ctx := testContext(t, composables.Actor{ID: ceo.ID(), Role: "ceo", OrganizationID: orgID})

	require.NoError(t, svc.AuthorizeRequestDecision(ctx, permissions.ActionApproveRequest, assigned.ID(), owner.ID()))
}
