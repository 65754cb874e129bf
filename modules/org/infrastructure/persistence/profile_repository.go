package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/repo"
)

const (
	selectProfilesQuery = `
		SELECT id, organization_id, display_name, email, role, business_unit_id, under_supervision, supervised_by, created_at, updated_at
		FROM profiles
	`
	insertProfileQuery = `
		INSERT INTO profiles (id, organization_id, display_name, email, role, business_unit_id, under_supervision, supervised_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	updateProfileQuery = `
		UPDATE profiles
		SET display_name = $2, email = $3, role = $4, business_unit_id = $5, under_supervision = $6, supervised_by = $7, updated_at = now()
		WHERE id = $1 AND organization_id = $8
	`
)

type ProfileRepository struct{}

func NewProfileRepository() profile.Repository {
	return &ProfileRepository{}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return profile.Profile{}, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return profile.Profile{}, err
	}

	var row models.Profile
	err = tx.QueryRow(ctx, selectProfilesQuery+` WHERE id = $1 AND organization_id = $2`, id, orgID).Scan(
		&row.ID,
		&row.OrganizationID,
		&row.DisplayName,
		&row.Email,
		&row.Role,
		&row.BusinessUnitID,
		&row.UnderSupervision,
		&row.SupervisedBy,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile.Profile{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "failed to query profile")
	}
	return toDomainProfile(&row)
}

func (r *ProfileRepository) GetAll(ctx context.Context) ([]profile.Profile, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryProfiles(ctx, selectProfilesQuery+` WHERE organization_id = $1 ORDER BY display_name`, orgID)
}

func (r *ProfileRepository) GetPaginated(ctx context.Context, params *profile.FindParams) ([]profile.Profile, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	query := selectProfilesQuery + ` WHERE organization_id = $1`
	args := []interface{}{orgID}
	if params != nil && params.Role != "" {
		query += ` AND role = $2`
		args = append(args, string(params.Role))
	}
	query += ` ORDER BY display_name`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryProfiles(ctx, query, args...)
}

func (r *ProfileRepository) ListByBusinessUnits(ctx context.Context, businessUnitIDs []uuid.UUID) ([]profile.Profile, error) {
	if len(businessUnitIDs) == 0 {
		return nil, nil
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryProfiles(
		ctx,
		selectProfilesQuery+` WHERE organization_id = $1 AND business_unit_id = ANY($2)`,
		orgID,
		businessUnitIDs,
	)
}

func (r *ProfileRepository) ListSupervisedBy(ctx context.Context, supervisorID uuid.UUID) ([]profile.Profile, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryProfiles(
		ctx,
		selectProfilesQuery+` WHERE organization_id = $1 AND under_supervision AND supervised_by = $2`,
		orgID,
		supervisorID,
	)
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return profile.Profile{}, err
	}

	row := toDBProfile(p)
	if err := tx.QueryRow(
		ctx,
		insertProfileQuery,
		row.ID,
		row.OrganizationID,
		row.DisplayName,
		row.Email,
		row.Role,
		row.BusinessUnitID,
		row.UnderSupervision,
		row.SupervisedBy,
	).Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
		return profile.Profile{}, errors.Wrap(err, "failed to insert profile")
	}
	return toDomainProfile(row)
}

func (r *ProfileRepository) Update(ctx context.Context, p profile.Profile) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	row := toDBProfile(p)
	tag, err := tx.Exec(
		ctx,
		updateProfileQuery,
		row.ID,
		row.DisplayName,
		row.Email,
		row.Role,
		row.BusinessUnitID,
		row.UnderSupervision,
		row.SupervisedBy,
		orgID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update profile")
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) queryProfiles(ctx context.Context, query string, args ...interface{}) ([]profile.Profile, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query profiles")
	}
	defer rows.Close()

	var results []profile.Profile
	for rows.Next() {
		var row models.Profile
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.DisplayName,
			&row.Email,
			&row.Role,
			&row.BusinessUnitID,
			&row.UnderSupervision,
			&row.SupervisedBy,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan profile row")
		}
		p, err := toDomainProfile(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
