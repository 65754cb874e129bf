package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/businessunit"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/pkg/composables"
)

// stubTx satisfies pgx.Tx for services that only need a transaction
// present in the context. Exec accepts the org scope statement; any
// other use panics through the embedded nil interface.
type stubTx struct {
	pgx.Tx
}

func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func testContext(t *testing.T, actor composables.Actor) context.Context {
	t.Helper()
	ctx := composables.WithActor(context.Background(), actor)
	return composables.WithTx(ctx, stubTx{})
}

type memProfileRepo struct {
	profiles map[uuid.UUID]profile.Profile
}

func newMemProfileRepo(profiles ...profile.Profile) *memProfileRepo {
	r := &memProfileRepo{profiles: map[uuid.UUID]profile.Profile{}}
	for _, p := range profiles {
		r.profiles[p.ID()] = p
	}
	return r
}

func (r *memProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (r *memProfileRepo) GetAll(ctx context.Context) ([]profile.Profile, error) {
	out := make([]profile.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProfileRepo) GetPaginated(ctx context.Context, params *profile.FindParams) ([]profile.Profile, error) {
	return r.GetAll(ctx)
}

func (r *memProfileRepo) ListByBusinessUnits(ctx context.Context, businessUnitIDs []uuid.UUID) ([]profile.Profile, error) {
	wanted := map[uuid.UUID]struct{}{}
	for _, id := range businessUnitIDs {
		wanted[id] = struct{}{}
	}
	var out []profile.Profile
	for _, p := range r.profiles {
		if p.BusinessUnitID() == nil {
			continue
		}
		if _, ok := wanted[*p.BusinessUnitID()]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProfileRepo) ListSupervisedBy(ctx context.Context, supervisorID uuid.UUID) ([]profile.Profile, error) {
	var out []profile.Profile
	for _, p := range r.profiles {
		if p.UnderSupervision() && p.SupervisedBy() != nil && *p.SupervisedBy() == supervisorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProfileRepo) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	r.profiles[p.ID()] = p
	return p, nil
}

func (r *memProfileRepo) Update(ctx context.Context, p profile.Profile) error {
	if _, ok := r.profiles[p.ID()]; !ok {
		return profile.ErrNotFound
	}
	r.profiles[p.ID()] = p
	return nil
}

type memTeamRepo struct {
	teams       map[uuid.UUID]team.Team
	memberships map[uuid.UUID]uuid.UUID // profile -> team
}

func newMemTeamRepo(teams ...team.Team) *memTeamRepo {
	r := &memTeamRepo{
		teams:       map[uuid.UUID]team.Team{},
		memberships: map[uuid.UUID]uuid.UUID{},
	}
	for _, t := range teams {
		r.teams[t.ID()] = t
	}
	return r
}

func (r *memTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (team.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return team.Team{}, team.ErrNotFound
	}
	return t, nil
}

func (r *memTeamRepo) GetAll(ctx context.Context) ([]team.Team, error) {
	out := make([]team.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTeamRepo) ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]team.Team, error) {
	var out []team.Team
	for _, t := range r.teams {
		if t.LeaderID() == leaderID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTeamRepo) MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for profileID, tID := range r.memberships {
		if tID == teamID {
			out = append(out, profileID)
		}
	}
	return out, nil
}

func (r *memTeamRepo) Create(ctx context.Context, t team.Team) (team.Team, error) {
	r.teams[t.ID()] = t
	return t, nil
}

func (r *memTeamRepo) Update(ctx context.Context, t team.Team) error {
	if _, ok := r.teams[t.ID()]; !ok {
		return team.ErrNotFound
	}
	r.teams[t.ID()] = t
	return nil
}

func (r *memTeamRepo) SetMembership(ctx context.Context, profileID, teamID uuid.UUID) error {
	r.memberships[profileID] = teamID
	return nil
}

func (r *memTeamRepo) RemoveMembership(ctx context.Context, profileID uuid.UUID) error {
	delete(r.memberships, profileID)
	return nil
}

type memBusinessUnitRepo struct {
	units   map[uuid.UUID]businessunit.BusinessUnit
	managed map[uuid.UUID][]uuid.UUID // manager -> unit ids
}

func newMemBusinessUnitRepo(units ...businessunit.BusinessUnit) *memBusinessUnitRepo {
	r := &memBusinessUnitRepo{
		units:   map[uuid.UUID]businessunit.BusinessUnit{},
		managed: map[uuid.UUID][]uuid.UUID{},
	}
	for _, u := range units {
		r.units[u.ID()] = u
	}
	return r
}

func (r *memBusinessUnitRepo) GetByID(ctx context.Context, id uuid.UUID) (businessunit.BusinessUnit, error) {
	u, ok := r.units[id]
	if !ok {
		return businessunit.BusinessUnit{}, businessunit.ErrNotFound
	}
	return u, nil
}

func (r *memBusinessUnitRepo) GetAll(ctx context.Context) ([]businessunit.BusinessUnit, error) {
	out := make([]businessunit.BusinessUnit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u)
	}
	return out, nil
}

func (r *memBusinessUnitRepo) ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]businessunit.BusinessUnit, error) {
	var out []businessunit.BusinessUnit
	for _, u := range r.units {
		if u.LeaderID() != nil && *u.LeaderID() == leaderID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memBusinessUnitRepo) ListManagedBy(ctx context.Context, managerID uuid.UUID) ([]businessunit.BusinessUnit, error) {
	var out []businessunit.BusinessUnit
	for _, id := range r.managed[managerID] {
		if u, ok := r.units[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memBusinessUnitRepo) Create(ctx context.Context, b businessunit.BusinessUnit) (businessunit.BusinessUnit, error) {
	r.units[b.ID()] = b
	return b, nil
}

func (r *memBusinessUnitRepo) Update(ctx context.Context, b businessunit.BusinessUnit) error {
	if _, ok := r.units[b.ID()]; !ok {
		return businessunit.ErrNotFound
	}
	r.units[b.ID()] = b
	return nil
}

func (r *memBusinessUnitRepo) AssignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error {
	r.managed[managerID] = append(r.managed[managerID], businessUnitID)
	return nil
}

func (r *memBusinessUnitRepo) UnassignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error {
	kept := r.managed[managerID][:0]
	for _, id := range r.managed[managerID] {
		if id != businessUnitID {
			kept = append(kept, id)
		}
	}
	r.managed[managerID] = kept
	return nil
}
