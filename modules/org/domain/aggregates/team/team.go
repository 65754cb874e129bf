package team

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Team struct {
	id             uuid.UUID
	organizationID uuid.UUID
	businessUnitID *uuid.UUID
	leaderID       uuid.UUID
	name           string
	createdAt      time.Time
	updatedAt      time.Time
}

func New(organizationID uuid.UUID, name string, leaderID uuid.UUID, businessUnitID *uuid.UUID) Team {
	return Team{
		id:             uuid.New(),
		organizationID: organizationID,
		businessUnitID: businessUnitID,
		leaderID:       leaderID,
		name:           strings.TrimSpace(name),
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	businessUnitID *uuid.UUID,
	leaderID uuid.UUID,
	name string,
	createdAt time.Time,
	updatedAt time.Time,
) Team {
	return Team{
		id:             id,
		organizationID: organizationID,
		businessUnitID: businessUnitID,
		leaderID:       leaderID,
		name:           strings.TrimSpace(name),
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (t Team) ID() uuid.UUID              { return t.id }
func (t Team) OrganizationID() uuid.UUID  { return t.organizationID }
func (t Team) BusinessUnitID() *uuid.UUID { return t.businessUnitID }
func (t Team) LeaderID() uuid.UUID        { return t.leaderID }
func (t Team) Name() string               { return t.name }
func (t Team) CreatedAt() time.Time       { return t.createdAt }
func (t Team) UpdatedAt() time.Time       { return t.updatedAt }
func (t Team) IsZero() bool               { return t.id == uuid.Nil }

// WithLeader returns a copy led by the given profile. Takes effect on
// the next scope resolution; scopes are never cached across requests.
func (t Team) WithLeader(leaderID uuid.UUID) Team {
	t.leaderID = leaderID
	return t
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Team, error)
	GetAll(ctx context.Context) ([]Team, error)
	// ListLedBy returns the teams whose leader is the given profile.
	ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]Team, error)
	// MemberIDs returns the profile ids holding an active membership.
	MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, t Team) (Team, error)
	Update(ctx context.Context, t Team) error
	// SetMembership moves the profile into the team; a profile holds at
	// most one active membership, so any prior one is replaced.
	SetMembership(ctx context.Context, profileID, teamID uuid.UUID) error
	RemoveMembership(ctx context.Context, profileID uuid.UUID) error
}
