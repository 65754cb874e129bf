package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/businessunit"
	"github.com/pipecrest/brokerage/modules/org/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
)

const (
	selectBusinessUnitsQuery = `
		SELECT id, organization_id, leader_id, name, created_at, updated_at
		FROM business_units
	`
	insertBusinessUnitQuery = `
		INSERT INTO business_units (id, organization_id, leader_id, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	updateBusinessUnitQuery = `
		UPDATE business_units
		SET leader_id = $2, name = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $4
	`
)

type BusinessUnitRepository struct{}

func NewBusinessUnitRepository() businessunit.Repository {
	return &BusinessUnitRepository{}
}

func (r *BusinessUnitRepository) GetByID(ctx context.Context, id uuid.UUID) (businessunit.BusinessUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return businessunit.BusinessUnit{}, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return businessunit.BusinessUnit{}, err
	}

	var row models.BusinessUnit
	err = tx.QueryRow(ctx, selectBusinessUnitsQuery+` WHERE id = $1 AND organization_id = $2`, id, orgID).Scan(
		&row.ID,
		&row.OrganizationID,
		&row.LeaderID,
		&row.Name,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return businessunit.BusinessUnit{}, businessunit.ErrNotFound
	}
	if err != nil {
		return businessunit.BusinessUnit{}, errors.Wrap(err, "failed to query business unit")
	}
	return toDomainBusinessUnit(&row), nil
}

func (r *BusinessUnitRepository) GetAll(ctx context.Context) ([]businessunit.BusinessUnit, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryUnits(ctx, selectBusinessUnitsQuery+` WHERE organization_id = $1 ORDER BY name`, orgID)
}

func (r *BusinessUnitRepository) ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]businessunit.BusinessUnit, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryUnits(ctx, selectBusinessUnitsQuery+` WHERE organization_id = $1 AND leader_id = $2`, orgID, leaderID)
}

func (r *BusinessUnitRepository) ListManagedBy(ctx context.Context, managerID uuid.UUID) ([]businessunit.BusinessUnit, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryUnits(
		ctx,
		`SELECT bu.id, bu.organization_id, bu.leader_id, bu.name, bu.created_at, bu.updated_at
		 FROM business_units bu
		 JOIN business_unit_managers bum ON bum.business_unit_id = bu.id
		 WHERE bu.organization_id = $1 AND bum.manager_id = $2`,
		orgID,
		managerID,
	)
}

func (r *BusinessUnitRepository) Create(ctx context.Context, b businessunit.BusinessUnit) (businessunit.BusinessUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return businessunit.BusinessUnit{}, err
	}

	row := toDBBusinessUnit(b)
	if err := tx.QueryRow(
		ctx,
		insertBusinessUnitQuery,
		row.ID,
		row.OrganizationID,
		row.LeaderID,
		row.Name,
	).Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
		return businessunit.BusinessUnit{}, errors.Wrap(err, "failed to insert business unit")
	}
	return toDomainBusinessUnit(row), nil
}

func (r *BusinessUnitRepository) Update(ctx context.Context, b businessunit.BusinessUnit) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	row := toDBBusinessUnit(b)
	tag, err := tx.Exec(ctx, updateBusinessUnitQuery, row.ID, row.LeaderID, row.Name, orgID)
	if err != nil {
		return errors.Wrap(err, "failed to update business unit")
	}
	if tag.RowsAffected() == 0 {
		return businessunit.ErrNotFound
	}
	return nil
}

func (r *BusinessUnitRepository) AssignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO business_unit_managers (organization_id, business_unit_id, manager_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (business_unit_id, manager_id) DO NOTHING`,
		orgID,
		businessUnitID,
		managerID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to assign manager")
	}
	return nil
}

func (r *BusinessUnitRepository) UnassignManager(ctx context.Context, businessUnitID, managerID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`DELETE FROM business_unit_managers
		 WHERE organization_id = $1 AND business_unit_id = $2 AND manager_id = $3`,
		orgID,
		businessUnitID,
		managerID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to unassign manager")
	}
	return nil
}

func (r *BusinessUnitRepository) queryUnits(ctx context.Context, query string, args ...interface{}) ([]businessunit.BusinessUnit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query business units")
	}
	defer rows.Close()

	var results []businessunit.BusinessUnit
	for rows.Next() {
		var row models.BusinessUnit
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.LeaderID,
			&row.Name,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan business unit row")
		}
		results = append(results, toDomainBusinessUnit(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
