package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/crm/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/repo"
)

const (
	selectDealsQuery = `
		SELECT id, organization_id, owner_id, client_name, stage, deal_value, commission_value,
		       probability, source_lead_id, source_request_id, created_at, updated_at
		FROM deals
	`
	insertDealQuery = `
		INSERT INTO deals (id, organization_id, owner_id, client_name, stage, deal_value, commission_value,
		                   probability, source_lead_id, source_request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	updateDealQuery = `
		UPDATE deals
		SET client_name = $2, stage = $3, deal_value = $4, commission_value = $5,
		    probability = $6, updated_at = now()
		WHERE id = $1 AND organization_id = $7
	`
)

type DealRepository struct{}

func NewDealRepository() deal.Repository {
	return &DealRepository{}
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (deal.Deal, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return deal.Deal{}, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return deal.Deal{}, err
	}

	var row models.Deal
	err = tx.QueryRow(ctx, selectDealsQuery+` WHERE id = $1 AND organization_id = $2`, id, orgID).Scan(
		&row.ID,
		&row.OrganizationID,
		&row.OwnerID,
		&row.ClientName,
		&row.Stage,
		&row.DealValue,
		&row.CommissionValue,
		&row.Probability,
		&row.SourceLeadID,
		&row.SourceRequestID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return deal.Deal{}, deal.ErrNotFound
	}
	if err != nil {
		return deal.Deal{}, errors.Wrap(err, "failed to query deal")
	}
	return toDomainDeal(&row), nil
}

func (r *DealRepository) List(ctx context.Context, params *deal.FindParams) ([]deal.Deal, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	where := []string{"organization_id = $1"}
	args := []interface{}{orgID}
	argPos := 2
	if params != nil {
		if params.OwnerID != nil {
			where = append(where, fmt.Sprintf("owner_id = $%d", argPos))
			args = append(args, *params.OwnerID)
			argPos++
		}
		if params.Stage != "" {
			where = append(where, fmt.Sprintf("stage = $%d", argPos))
			args = append(args, string(params.Stage))
		}
	}

	query := selectDealsQuery + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list deals")
	}
	defer rows.Close()

	var results []deal.Deal
	for rows.Next() {
		var row models.Deal
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.OwnerID,
			&row.ClientName,
			&row.Stage,
			&row.DealValue,
			&row.CommissionValue,
			&row.Probability,
			&row.SourceLeadID,
			&row.SourceRequestID,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan deal row")
		}
		results = append(results, toDomainDeal(&row))
	}
	return results, rows.Err()
}

func (r *DealRepository) Create(ctx context.Context, d deal.Deal) (deal.Deal, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return deal.Deal{}, err
	}

	row := toDBDeal(d)
	if err := tx.QueryRow(
		ctx,
		insertDealQuery,
		row.ID,
		row.OrganizationID,
		row.OwnerID,
		row.ClientName,
		row.Stage,
		row.DealValue,
		row.CommissionValue,
		row.Probability,
		row.SourceLeadID,
		row.SourceRequestID,
	).Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
		return deal.Deal{}, errors.Wrap(err, "failed to insert deal")
	}
	return toDomainDeal(row), nil
}

func (r *DealRepository) Update(ctx context.Context, d deal.Deal) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	row := toDBDeal(d)
	tag, err := tx.Exec(
		ctx,
		updateDealQuery,
		row.ID,
		row.ClientName,
		row.Stage,
		row.DealValue,
		row.CommissionValue,
		row.Probability,
		orgID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update deal")
	}
	if tag.RowsAffected() == 0 {
		return deal.ErrNotFound
	}
	return nil
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM deals WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return errors.Wrap(err, "failed to delete deal")
	}
	if tag.RowsAffected() == 0 {
		return deal.ErrNotFound
	}
	return nil
}
