package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed seven-level hierarchy. Permission checks are
// table-driven off this enum; there is no free-form role text anywhere
// below the transport boundary.
type Role string

const (
	RoleSalesAgent       Role = "sales_agent"
	RoleTeamLeader       Role = "team_leader"
	RoleSalesManager     Role = "sales_manager"
	RoleBusinessUnitHead Role = "business_unit_head"
	RoleFinance          Role = "finance"
	RoleCEO              Role = "ceo"
	RoleAdmin            Role = "admin"
)

func Roles() []Role {
	return []Role{
		RoleSalesAgent,
		RoleTeamLeader,
		RoleSalesManager,
		RoleBusinessUnitHead,
		RoleFinance,
		RoleCEO,
		RoleAdmin,
	}
}

func ParseRole(v string) (Role, error) {
	r := Role(strings.TrimSpace(strings.ToLower(v)))
	for _, known := range Roles() {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", v)
}

type Profile struct {
	id               uuid.UUID
	organizationID   uuid.UUID
	displayName      string
	email            string
	role             Role
	businessUnitID   *uuid.UUID
	underSupervision bool
	supervisedBy     *uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
}

func New(organizationID uuid.UUID, displayName, email string, role Role) Profile {
	return Profile{
		id:             uuid.New(),
		organizationID: organizationID,
		displayName:    strings.TrimSpace(displayName),
		email:          strings.TrimSpace(email),
		role:           role,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	displayName string,
	email string,
	role Role,
	businessUnitID *uuid.UUID,
	underSupervision bool,
	supervisedBy *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Profile {
	return Profile{
		id:               id,
		organizationID:   organizationID,
		displayName:      strings.TrimSpace(displayName),
		email:            strings.TrimSpace(email),
		role:             role,
		businessUnitID:   businessUnitID,
		underSupervision: underSupervision,
		supervisedBy:     supervisedBy,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (p Profile) ID() uuid.UUID              { return p.id }
func (p Profile) OrganizationID() uuid.UUID  { return p.organizationID }
func (p Profile) DisplayName() string        { return p.displayName }
func (p Profile) Email() string              { return p.email }
func (p Profile) Role() Role                 { return p.role }
func (p Profile) BusinessUnitID() *uuid.UUID { return p.businessUnitID }
func (p Profile) UnderSupervision() bool     { return p.underSupervision }
func (p Profile) SupervisedBy() *uuid.UUID   { return p.supervisedBy }
func (p Profile) CreatedAt() time.Time       { return p.createdAt }
func (p Profile) UpdatedAt() time.Time       { return p.updatedAt }
func (p Profile) IsZero() bool               { return p.id == uuid.Nil }

// WithBusinessUnit returns a copy assigned to the given business unit.
func (p Profile) WithBusinessUnit(buID *uuid.UUID) Profile {
	p.businessUnitID = buID
	return p
}

// WithSupervisor returns a copy supervised by the given team leader,
// or released from supervision when supervisorID is nil.
func (p Profile) WithSupervisor(supervisorID *uuid.UUID) Profile {
	p.supervisedBy = supervisorID
	p.underSupervision = supervisorID != nil
	return p
}

type FindParams struct {
	Role   Role
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
	GetAll(ctx context.Context) ([]Profile, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Profile, error)
	ListByBusinessUnits(ctx context.Context, businessUnitIDs []uuid.UUID) ([]Profile, error)
	ListSupervisedBy(ctx context.Context, supervisorID uuid.UUID) ([]Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, p Profile) error
}
