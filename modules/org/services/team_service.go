package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/eventbus"
)

const teamEntityType = "team"

type TeamService struct {
	repo      team.Repository
	authz     *AuthzService
	publisher eventbus.EventBus
	ledger    ActivityRecorder
}

func NewTeamService(
	repo team.Repository,
	authz *AuthzService,
	publisher eventbus.EventBus,
	ledger ActivityRecorder,
) *TeamService {
	return &TeamService{
		repo:      repo,
		authz:     authz,
		publisher: publisher,
		ledger:    ledger,
	}
}

func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (team.Team, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (team.Team, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *TeamService) GetAll(ctx context.Context) ([]team.Team, error) {
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]team.Team, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *TeamService) Create(ctx context.Context, name string, leaderID uuid.UUID, businessUnitID *uuid.UUID) (team.Team, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return team.Team{}, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return team.Team{}, err
	}

	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (team.Team, error) {
		return s.repo.Create(txCtx, team.New(actor.OrganizationID, name, leaderID, businessUnitID))
	})
	if err != nil {
		return team.Team{}, err
	}

	id := created.ID()
	s.ledger.Record(ctx, activitylog.ActionCreated, teamEntityType, &id, map[string]string{
		"name":      created.Name(),
		"leader_id": created.LeaderID().String(),
	})
	s.publisher.Publish(&team.CreatedEvent{Result: created})
	return created, nil
}

// SetLeader replaces the team's leader. Scopes are derived per request,
// so the change is visible on the next authorization check.
func (s *TeamService) SetLeader(ctx context.Context, teamID, leaderID uuid.UUID) (team.Team, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return team.Team{}, err
	}

	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (team.Team, error) {
		existing, err := s.repo.GetByID(txCtx, teamID)
		if err != nil {
			return team.Team{}, err
		}
		next := existing.WithLeader(leaderID)
		if err := s.repo.Update(txCtx, next); err != nil {
			return team.Team{}, err
		}
		return next, nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, teamEntityType, &teamID, map[string]string{
		"leader_id": leaderID.String(),
	})
	s.publisher.Publish(&team.UpdatedEvent{Result: updated})
	return updated, nil
}

// AddMember moves the profile into the team, replacing any membership
// it held elsewhere.
func (s *TeamService) AddMember(ctx context.Context, teamID, profileID uuid.UUID) error {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return err
	}

	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (team.Team, error) {
		existing, err := s.repo.GetByID(txCtx, teamID)
		if err != nil {
			return team.Team{}, err
		}
		if err := s.repo.SetMembership(txCtx, profileID, teamID); err != nil {
			return team.Team{}, err
		}
		return existing, nil
	})
	if err != nil {
		return err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, teamEntityType, &teamID, map[string]string{
		"member_id": profileID.String(),
		"change":    "member_added",
	})
	s.publisher.Publish(&team.MembershipChangedEvent{Result: updated})
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, profileID uuid.UUID) error {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return err
	}

	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (team.Team, error) {
		existing, err := s.repo.GetByID(txCtx, teamID)
		if err != nil {
			return team.Team{}, err
		}
		if err := s.repo.RemoveMembership(txCtx, profileID); err != nil {
			return team.Team{}, err
		}
		return existing, nil
	})
	if err != nil {
		return err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, teamEntityType, &teamID, map[string]string{
		"member_id": profileID.String(),
		"change":    "member_removed",
	})
	s.publisher.Publish(&team.MembershipChangedEvent{Result: updated})
	return nil
}
