package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/scope"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

var (
	ErrRoleInsufficient = serrors.NewError(serrors.CodeRoleInsufficient, "role does not permit the action", "")
	ErrOutOfScope       = serrors.NewError(serrors.CodeOutOfScope, "target is outside the actor's scope", "")
)

// AuthzService decides, for an actor and action, whether the action is
// permitted. Two independent checks must both pass: the action's
// minimum-role table, and, for ownership-scoped actions, membership
// of the target owner in the actor's resolved scope. Each failure
// carries its own reason code.
type AuthzService struct {
	scopes *ScopeService
}

func NewAuthzService(scopes *ScopeService) *AuthzService {
	return &AuthzService{scopes: scopes}
}

// Authorize checks the action against the actor in context. Pass a nil
// targetOwnerID for actions that are not ownership-scoped
// (configuration changes, invites).
func (s *AuthzService) Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	role, err := profile.ParseRole(actor.Role)
	if err != nil {
		// An unknown or ambiguous role denies, it never falls through
		// to a default.
		return ErrRoleInsufficient.WithDetails("unknown role %q", actor.Role)
	}
	if !permissions.Allowed(action, role) {
		return ErrRoleInsufficient.WithDetails("role %s may not %s", role, action)
	}
	if targetOwnerID == nil {
		return nil
	}
	set, err := s.scopes.ResolveScope(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !set.Contains(*targetOwnerID) {
		return ErrOutOfScope.WithDetails("owner %s not in scope of actor %s", targetOwnerID, actor.ID)
	}
	return nil
}

// VisibleOwners returns the profile ids whose records the actor may
// read under the action: the role table applies first, then the
// actor's scope is derived fresh. Read paths filter listings with the
// returned set.
func (s *AuthzService) VisibleOwners(ctx context.Context, action permissions.Action) (scope.Set, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, err
	}
	role, err := profile.ParseRole(actor.Role)
	if err != nil {
		return nil, ErrRoleInsufficient.WithDetails("unknown role %q", actor.Role)
	}
	if !permissions.Allowed(action, role) {
		return nil, ErrRoleInsufficient.WithDetails("role %s may not %s", role, action)
	}
	return s.scopes.ResolveScope(ctx, actor.ID)
}

// AuthorizeRequestDecision gates moving a client request out of
// pending. Approval is routed to one specific leader: a team leader
// may decide only requests assigned to them exactly, not requests
// anywhere in their team hierarchy. Higher roles decide within their
// resolved scope over the request's owner.
func (s *AuthzService) AuthorizeRequestDecision(ctx context.Context, action permissions.Action, assignedLeaderID, ownerID uuid.UUID) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	role, err := profile.ParseRole(actor.Role)
	if err != nil {
		return ErrRoleInsufficient.WithDetails("unknown role %q", actor.Role)
	}
	if !permissions.Allowed(action, role) {
		return ErrRoleInsufficient.WithDetails("role %s may not %s", role, action)
	}
	if role == profile.RoleTeamLeader {
		if actor.ID != assignedLeaderID {
			return ErrOutOfScope.WithDetails("request is assigned to leader %s", assignedLeaderID)
		}
		return nil
	}
	set, err := s.scopes.ResolveScope(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !set.Contains(ownerID) {
		return ErrOutOfScope.WithDetails("request owner %s not in scope of actor %s", ownerID, actor.ID)
	}
	return nil
}
