package businessunit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BusinessUnit struct {
	id             uuid.UUID
	organizationID uuid.UUID
	leaderID       *uuid.UUID
	name           string
	createdAt      time.Time
	updatedAt      time.Time
}

func New(organizationID uuid.UUID, name string, leaderID *uuid.UUID) BusinessUnit {
	return BusinessUnit{
		id:             uuid.New(),
		organizationID: organizationID,
		leaderID:       leaderID,
		name:           strings.TrimSpace(name),
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	leaderID *uuid.UUID,
	name string,
	createdAt time.Time,
	updatedAt time.Time,
) BusinessUnit {
	return BusinessUnit{
		id:             id,
		organizationID: organizationID,
		leaderID:       leaderID,
		name:           strings.TrimSpace(name),
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (b BusinessUnit) ID() uuid.UUID             { return b.id }
func (b BusinessUnit) OrganizationID() uuid.UUID { return b.organizationID }
func (b BusinessUnit) LeaderID() *uuid.UUID      { return b.leaderID }
func (b BusinessUnit) Name() string              { return b.name }
func (b BusinessUnit) CreatedAt() time.Time      { return b.createdAt }
func (b BusinessUnit) UpdatedAt() time.Time      { return b.updatedAt }
func (b BusinessUnit) IsZero() bool              { return b.id == uuid.Nil }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (BusinessUnit, error)
	GetAll(ctx context.Context) ([]BusinessUnit, error)
	// ListLedBy returns units whose head is the given profile.
	ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]BusinessUnit, error)
	// ListManagedBy returns units assigned to a sales manager. A
	// manager with no assignments gets an empty list, never "all".
	ListManagedBy(ctx context.Context, managerID uuid.UUID) ([]BusinessUnit, error)
	Create(ctx context.Context, b BusinessUnit) (BusinessUnit, error)
	Update(ctx context.Context, b BusinessUnit) error
	AssignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error
	UnassignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error
}
