package services

import (
	"context"

	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/businessunit"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/pkg/composables"
)

func TestScopeService_SalesAgentSeesOnlySelf(t *testing.T) {
	orgID := uuid.New()
	agent := profile.New(orgID, "Agent", "agent@example.com", profile.RoleSalesAgent)
	other := profile.New(orgID, "Other", "other@example.com", profile.RoleSalesAgent)

	svc := NewScopeService(newMemProfileRepo(agent, other), newMemTeamRepo(), newMemBusinessUnitRepo())
	ctx := testContext(t, composables.Actor{ID: agent.ID(), Role: "sales_agent", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, agent.ID())
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	require.True(t, set.Contains(agent.ID()))
	require.False(t, set.Contains(other.ID()))
}

func TestScopeService_FinanceSeesOnlySelf(t *testing.T) {
	orgID := uuid.New()
	fin := profile.New(orgID, "Finance", "fin@example.com", profile.RoleFinance)
	agent := profile.New(orgID, "Agent", "agent@example.com", profile.RoleSalesAgent)

	svc := NewScopeService(newMemProfileRepo(fin, agent), newMemTeamRepo(), newMemBusinessUnitRepo())
	ctx := testContext(t, composables.Actor{ID: fin.ID(), Role: "finance", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, fin.ID())
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	require.True(t, set.Contains(fin.ID()))
}

func TestScopeService_TeamLeaderSeesTeamAndSupervised(t *testing.T) {
	orgID := uuid.New()
	leader := profile.New(orgID, "Leader", "leader@example.com", profile.RoleTeamLeader)
	member := profile.New(orgID, "Member", "member@example.com", profile.RoleSalesAgent)
	leaderID := leader.ID()
	supervised := profile.New(orgID, "Supervised", "sup@example.com", profile.RoleSalesAgent).
		WithSupervisor(&leaderID)
	outsider := profile.New(orgID, "Outsider", "out@example.com", profile.RoleSalesAgent)

	ledTeam := team.New(orgID, "Alpha", leader.ID(), nil)
	teams := newMemTeamRepo(ledTeam)
	require.NoError(t, teams.SetMembership(context.Background(), member.ID(), ledTeam.ID()))

	svc := NewScopeService(
		newMemProfileRepo(leader, member, supervised, outsider),
		teams,
		newMemBusinessUnitRepo(),
	)
	ctx := testContext(t, composables.Actor{ID: leader.ID(), Role: "team_leader", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, leader.ID())
	require.NoError(t, err)
	require.True(t, set.Contains(leader.ID()))
	require.True(t, set.Contains(member.ID()))
	require.True(t, set.Contains(supervised.ID()))
	require.False(t, set.Contains(outsider.ID()))
}

func TestScopeService_SalesManagerWithoutUnitsHasEmptyScope(t *testing.T) {
	orgID := uuid.New()
	manager := profile.New(orgID, "Manager", "mgr@example.com", profile.RoleSalesManager)
	agent := profile.New(orgID, "Agent", "agent@example.com", profile.RoleSalesAgent)

	svc := NewScopeService(newMemProfileRepo(manager, agent), newMemTeamRepo(), newMemBusinessUnitRepo())
	ctx := testContext(t, composables.Actor{ID: manager.ID(), Role: "sales_manager", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, manager.ID())
	require.NoError(t, err)
	// No assignments means no visibility at all, not even self.
	require.Equal(t, 0, set.Len())
}

func TestScopeService_SalesManagerSeesManagedUnitMembers(t *testing.T) {
	orgID := uuid.New()
	unit := businessunit.New(orgID, "Cairo", nil)
	unitID := unit.ID()

	manager := profile.New(orgID, "Manager", "mgr@example.com", profile.RoleSalesManager)
	inUnit := profile.New(orgID, "In", "in@example.com", profile.RoleSalesAgent).WithBusinessUnit(&unitID)
	outside := profile.New(orgID, "Out", "out@example.com", profile.RoleSalesAgent)

	units := newMemBusinessUnitRepo(unit)
	require.NoError(t, units.AssignManager(context.Background(), unit.ID(), manager.ID()))

	svc := NewScopeService(newMemProfileRepo(manager, inUnit, outside), newMemTeamRepo(), units)
	ctx := testContext(t, composables.Actor{ID: manager.ID(), Role: "sales_manager", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, manager.ID())
	require.NoError(t, err)
	require.True(t, set.Contains(inUnit.ID()))
	require.False(t, set.Contains(outside.ID()))
	require.False(t, set.Contains(manager.ID()))
}

func TestScopeService_BusinessUnitHeadSeesUnitAndSelf(t *testing.T) {
	orgID := uuid.New()
	head := profile.New(orgID, "Head", "head@example.com", profile.RoleBusinessUnitHead)
	headID := head.ID()
	unit := businessunit.New(orgID, "Giza", &headID)
	unitID := unit.ID()
	inUnit := profile.New(orgID, "In", "in@example.com", profile.RoleSalesAgent).WithBusinessUnit(&unitID)

	svc := NewScopeService(newMemProfileRepo(head, inUnit), newMemTeamRepo(), newMemBusinessUnitRepo(unit))
	ctx := testContext(t, composables.Actor{ID: head.ID(), Role: "business_unit_head", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, head.ID())
	require.NoError(t, err)
	require.True(t, set.Contains(head.ID()))
	require.True(t, set.Contains(inUnit.ID()))
}

func TestScopeService_CEOSeesEveryProfile(t *testing.T) {
	orgID := uuid.New()
	ceo := profile.New(orgID, "CEO", "ceo@example.com", profile.RoleCEO)
	a := profile.New(orgID, "A", "a@example.com", profile.RoleSalesAgent)
	b := profile.New(orgID, "B", "b@example.com", profile.RoleFinance)

	svc := NewScopeService(newMemProfileRepo(ceo, a, b), newMemTeamRepo(), newMemBusinessUnitRepo())
	ctx := testContext(t, composables.Actor{ID: ceo.ID(), Role: "ceo", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, ceo.ID())
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
}

func TestScopeService_UnknownActorHasEmptyScope(t *testing.T) {
	orgID := uuid.New()
	svc := NewScopeService(newMemProfileRepo(), newMemTeamRepo(), newMemBusinessUnitRepo())
	ghost := uuid.New()
	ctx := testContext(t, composables.Actor{ID: ghost, Role: "sales_agent", OrganizationID: orgID})

	set, err := svc.ResolveScope(ctx, ghost)
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}
