package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/team"
	"github.com/pipecrest/brokerage/modules/org/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
)

const (
	selectTeamsQuery = `
		SELECT id, organization_id, business_unit_id, leader_id, name, created_at, updated_at
		FROM teams
	`
	insertTeamQuery = `
		INSERT INTO teams (id, organization_id, business_unit_id, leader_id, name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	updateTeamQuery = `
		UPDATE teams
		SET business_unit_id = $2, leader_id = $3, name = $4, updated_at = now()
		WHERE id = $1 AND organization_id = $5
	`
	upsertMembershipQuery = `
		INSERT INTO team_memberships (organization_id, profile_id, team_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id) DO UPDATE SET team_id = EXCLUDED.team_id, joined_at = now()
	`
)

type TeamRepository struct{}

func NewTeamRepository() team.Repository {
	return &TeamRepository{}
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (team.Team, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return team.Team{}, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return team.Team{}, err
	}

	var row models.Team
	err = tx.QueryRow(ctx, selectTeamsQuery+` WHERE id = $1 AND organization_id = $2`, id, orgID).Scan(
		&row.ID,
		&row.OrganizationID,
		&row.BusinessUnitID,
		&row.LeaderID,
		&row.Name,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return team.Team{}, team.ErrNotFound
	}
	if err != nil {
		return team.Team{}, errors.Wrap(err, "failed to query team")
	}
	return toDomainTeam(&row), nil
}

func (r *TeamRepository) GetAll(ctx context.Context) ([]team.Team, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryTeams(ctx, selectTeamsQuery+` WHERE organization_id = $1 ORDER BY name`, orgID)
}

func (r *TeamRepository) ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]team.Team, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryTeams(ctx, selectTeamsQuery+` WHERE organization_id = $1 AND leader_id = $2`, orgID, leaderID)
}

func (r *TeamRepository) MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(
		ctx,
		`SELECT profile_id FROM team_memberships WHERE organization_id = $1 AND team_id = $2`,
		orgID,
		teamID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query team members")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan member id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return team.Team{}, err
	}

	row := toDBTeam(t)
	if err := tx.QueryRow(
		ctx,
		insertTeamQuery,
		row.ID,
		row.OrganizationID,
		row.BusinessUnitID,
		row.LeaderID,
		row.Name,
	).Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
		return team.Team{}, errors.Wrap(err, "failed to insert team")
	}
	return toDomainTeam(row), nil
}

func (r *TeamRepository) Update(ctx context.Context, t team.Team) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	row := toDBTeam(t)
	tag, err := tx.Exec(
		ctx,
		updateTeamQuery,
		row.ID,
		row.BusinessUnitID,
		row.LeaderID,
		row.Name,
		orgID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update team")
	}
	if tag.RowsAffected() == 0 {
		return team.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) SetMembership(ctx context.Context, profileID, teamID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, upsertMembershipQuery, orgID, profileID, teamID); err != nil {
		return errors.Wrap(err, "failed to upsert membership")
	}
	return nil
}

func (r *TeamRepository) RemoveMembership(ctx context.Context, profileID uuid.UUID) error {
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
		`DELETE FROM team_memberships WHERE organization_id = $1 AND profile_id = $2`,
		orgID,
		profileID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to remove membership")
	}
	return nil
}

func (r *TeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]team.Team, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query teams")
	}
	defer rows.Close()

	var results []team.Team
	for rows.Next() {
		var row models.Team
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.BusinessUnitID,
			&row.LeaderID,
			&row.Name,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan team row")
		}
		results = append(results, toDomainTeam(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
