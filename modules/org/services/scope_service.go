package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/businessunit"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/modules/org/domain/scope"
	"github.com/pipecrest/brokerage/pkg/composables"
)

// ScopeService derives the set of profile ids an actor may act upon.
// The derivation is a pure read computed fresh per call: team
// membership and supervision can change between requests, so a scope
// is never cached.
type ScopeService struct {
	profiles profile.Repository
	teams    team.Repository
	units    businessunit.Repository
}

func NewScopeService(
	profiles profile.Repository,
	teams team.Repository,
	units businessunit.Repository,
) *ScopeService {
	return &ScopeService{
		profiles: profiles,
		teams:    teams,
		units:    units,
	}
}

// ResolveScope computes the actor's visibility set. An unknown actor
// yields an empty set, not an error: authorization fails closed.
func (s *ScopeService) ResolveScope(ctx context.Context, actorID uuid.UUID) (scope.Set, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (scope.Set, error) {
		return s.resolve(txCtx, actorID)
	})
}

func (s *ScopeService) resolve(ctx context.Context, actorID uuid.UUID) (scope.Set, error) {
	actor, err := s.profiles.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return scope.New(), nil
		}
		return nil, err
	}

	switch actor.Role() {
	case profile.RoleSalesAgent, profile.RoleFinance:
		return scope.New(actorID), nil

	case profile.RoleTeamLeader:
		set := scope.New(actorID)
		led, err := s.teams.ListLedBy(ctx, actorID)
		if err != nil {
			return nil, err
		}
		for _, t := range led {
			members, err := s.teams.MemberIDs(ctx, t.ID())
			if err != nil {
				return nil, err
			}
			set.Add(members...)
		}
		supervised, err := s.profiles.ListSupervisedBy(ctx, actorID)
		if err != nil {
			return nil, err
		}
		for _, p := range supervised {
			set.Add(p.ID())
		}
		return set, nil

	case profile.RoleSalesManager:
		units, err := s.units.ListManagedBy(ctx, actorID)
		if err != nil {
			return nil, err
		}
		// No assigned units means an empty scope, never "all".
		return s.unitMembers(ctx, units)

	case profile.RoleBusinessUnitHead:
		units, err := s.units.ListLedBy(ctx, actorID)
		if err != nil {
			return nil, err
		}
		set, err := s.unitMembers(ctx, units)
		if err != nil {
			return nil, err
		}
		set.Add(actorID)
		return set, nil

	case profile.RoleCEO, profile.RoleAdmin:
		all, err := s.profiles.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		set := scope.New()
		for _, p := range all {
			set.Add(p.ID())
		}
		return set, nil
	}

	return scope.New(), nil
}

func (s *ScopeService) unitMembers(ctx context.Context, units []businessunit.BusinessUnit) (scope.Set, error) {
	if len(units) == 0 {
		return scope.New(), nil
	}
	ids := make([]uuid.UUID, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID())
	}
	members, err := s.profiles.ListByBusinessUnits(ctx, ids)
	if err != nil {
		return nil, err
	}
	set := scope.New()
	for _, p := range members {
		set.Add(p.ID())
	}
	return set, nil
}
