package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/eventbus"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

const profileEntityType = "profile"

type ProfileService struct {
	repo      profile.Repository
	authz     *AuthzService
	publisher eventbus.EventBus
	ledger    ActivityRecorder
}

func NewProfileService(
	repo profile.Repository,
	authz *AuthzService,
	publisher eventbus.EventBus,
	ledger ActivityRecorder,
) *ProfileService {
	return &ProfileService{
		repo:      repo,
		authz:     authz,
		publisher: publisher,
		ledger:    ledger,
	}
}

// GetByID returns the profile only when it sits in the actor's
// resolved scope.
func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionViewProfile, &id); err != nil {
		return profile.Profile{}, err
	}
	return composables.InOrgTxResult(ctx, func(txCtx context.Context) (profile.Profile, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

// GetPaginated filters the directory down to the actor's scope.
func (s *ProfileService) GetPaginated(ctx context.Context, params *profile.FindParams) ([]profile.Profile, error) {
	visible, err := s.authz.VisibleOwners(ctx, permissions.ActionViewProfile)
	if err != nil {
		return nil, err
	}
	found, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) ([]profile.Profile, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
	if err != nil {
		return nil, err
	}
	out := make([]profile.Profile, 0, len(found))
	for _, p := range found {
		if visible.Contains(p.ID()) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Invite creates a profile for a user joining the organization. The
// identity itself lives with the external provider; only the pipeline
// facts (role, unit, supervision) are kept here.
func (s *ProfileService) Invite(ctx context.Context, dto *profile.CreateDTO) (profile.Profile, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionInviteUser, nil); err != nil {
		return profile.Profile{}, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return profile.Profile{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return profile.Profile{}, serrors.NewError(serrors.CodeConfigConflict, "invalid profile", "").
			WithDetails("%v", errs)
	}
	entity, err := dto.ToEntity(actor.OrganizationID)
	if err != nil {
		return profile.Profile{}, serrors.NewError(serrors.CodeConfigConflict, "invalid profile", "").
			WithDetails("%v", err)
	}

	created, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (profile.Profile, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return profile.Profile{}, err
	}

	id := created.ID()
	s.ledger.Record(ctx, activitylog.ActionInvited, profileEntityType, &id, map[string]string{
		"role":  string(created.Role()),
		"email": created.Email(),
	})
	s.publisher.Publish(&profile.CreatedEvent{Result: created})
	return created, nil
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, dto *profile.UpdateDTO) (profile.Profile, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionManageOrg, nil); err != nil {
		return profile.Profile{}, err
	}

	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (profile.Profile, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return profile.Profile{}, err
		}
		next, err := dto.Apply(existing)
		if err != nil {
			return profile.Profile{}, serrors.NewError(serrors.CodeConfigConflict, "invalid profile update", "").
				WithDetails("%v", err)
		}
		if err := s.repo.Update(txCtx, next); err != nil {
			return profile.Profile{}, err
		}
		return next, nil
	})
	if err != nil {
		return profile.Profile{}, err
	}

	s.ledger.Record(ctx, activitylog.ActionUpdated, profileEntityType, &id, nil)
	s.publisher.Publish(&profile.UpdatedEvent{Result: updated})
	return updated, nil
}

// AssignSupervisor places the profile under a team leader, or releases
// it when supervisorID is nil. The new edge is rejected when the
// supervisor already sits below the profile in the supervision chain.
func (s *ProfileService) AssignSupervisor(ctx context.Context, profileID uuid.UUID, supervisorID *uuid.UUID) (profile.Profile, error) {
	if err := s.authz.Authorize(ctx, permissions.ActionAssignSupervision, nil); err != nil {
		return profile.Profile{}, err
	}

	updated, err := composables.InOrgTxResult(ctx, func(txCtx context.Context) (profile.Profile, error) {
		existing, err := s.repo.GetByID(txCtx, profileID)
		if err != nil {
			return profile.Profile{}, err
		}
		if supervisorID != nil {
			if *supervisorID == profileID {
				return profile.Profile{}, profile.ErrSupervisionCycle
			}
			if err := s.checkNoCycle(txCtx, profileID, *supervisorID); err != nil {
				return profile.Profile{}, err
			}
		}
		next := existing.WithSupervisor(supervisorID)
		if err := s.repo.Update(txCtx, next); err != nil {
			return profile.Profile{}, err
		}
		return next, nil
	})
	if err != nil {
		return profile.Profile{}, err
	}

	meta := map[string]any{"supervised": supervisorID != nil}
	if supervisorID != nil {
		meta["supervisor_id"] = supervisorID.String()
	}
	s.ledger.Record(ctx, activitylog.ActionSupervisionChange, profileEntityType, &profileID, meta)
	s.publisher.Publish(&profile.SupervisionChangedEvent{Result: updated})
	return updated, nil
}

// checkNoCycle walks the supervisor's ancestor chain; hitting profileID
// means the new edge would close a loop.
func (s *ProfileService) checkNoCycle(ctx context.Context, profileID, supervisorID uuid.UUID) error {
	seen := map[uuid.UUID]struct{}{}
	current := supervisorID
	for {
		if _, ok := seen[current]; ok {
			return nil
		}
		seen[current] = struct{}{}
		p, err := s.repo.GetByID(ctx, current)
		if err != nil {
			return err
		}
		parent := p.SupervisedBy()
		if parent == nil {
			return nil
		}
		if *parent == profileID {
			return profile.ErrSupervisionCycle
		}
		current = *parent
	}
}
