package persistence

import (
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/businessunit"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/modules/org/infrastructure/persistence/models"
)

func toDomainProfile(row *models.Profile) (profile.Profile, error) {
	role, err := profile.ParseRole(row.Role)
	if err != nil {
		return profile.Profile{}, err
	}
	return profile.Hydrate(
		row.ID,
		row.OrganizationID,
		row.DisplayName,
		row.Email,
		role,
		row.BusinessUnitID,
		row.UnderSupervision,
		row.SupervisedBy,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDBProfile(p profile.Profile) *models.Profile {
	return &models.Profile{
		ID:               p.ID(),
		OrganizationID:   p.OrganizationID(),
		DisplayName:      p.DisplayName(),
		Email:            p.Email(),
		Role:             string(p.Role()),
		BusinessUnitID:   p.BusinessUnitID(),
		UnderSupervision: p.UnderSupervision(),
		SupervisedBy:     p.SupervisedBy(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func toDomainTeam(row *models.Team) team.Team {
	return team.Hydrate(
		row.ID,
		row.OrganizationID,
		row.BusinessUnitID,
		row.LeaderID,
		row.Name,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDBTeam(t team.Team) *models.Team {
	return &models.Team{
		ID:             t.ID(),
		OrganizationID: t.OrganizationID(),
		BusinessUnitID: t.BusinessUnitID(),
		LeaderID:       t.LeaderID(),
		Name:           t.Name(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
}

func toDomainBusinessUnit(row *models.BusinessUnit) businessunit.BusinessUnit {
	return businessunit.Hydrate(
		row.ID,
		row.OrganizationID,
		row.LeaderID,
		row.Name,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDBBusinessUnit(b businessunit.BusinessUnit) *models.BusinessUnit {
	return &models.BusinessUnit{
		ID:             b.ID(),
		OrganizationID: b.OrganizationID(),
		LeaderID:       b.LeaderID(),
		Name:           b.Name(),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      b.UpdatedAt(),
	}
}
