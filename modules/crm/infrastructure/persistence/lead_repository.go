package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/lead"
	"github.com/pipecrest/brokerage/modules/crm/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/repo"
)

const (
	selectLeadsQuery = `
		SELECT id, organization_id, owner_id, name, phone, source, estimated_budget, status,
		       contacted_at, qualified_at, converted_at, lost_at, converted_deal_id,
		       created_at, updated_at
		FROM leads
	`
	insertLeadQuery = `
		INSERT INTO leads (id, organization_id, owner_id, name, phone, source, estimated_budget, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	updateLeadQuery = `
		UPDATE leads
		SET name = $2, phone = $3, source = $4, estimated_budget = $5, status = $6,
		    contacted_at = $7, qualified_at = $8, converted_at = $9, lost_at = $10,
		    converted_deal_id = $11, updated_at = now()
		WHERE id = $1 AND organization_id = $12
	`
)

type LeadRepository struct{}

func NewLeadRepository() lead.Repository {
	return &LeadRepository{}
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	return r.getByID(ctx, id, "")
}

func (r *LeadRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *LeadRepository) getByID(ctx context.Context, id uuid.UUID, suffix string) (lead.Lead, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return lead.Lead{}, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return lead.Lead{}, err
	}

	var row models.Lead
	err = tx.QueryRow(ctx, selectLeadsQuery+` WHERE id = $1 AND organization_id = $2`+suffix, id, orgID).Scan(
		&row.ID,
		&row.OrganizationID,
		&row.OwnerID,
		&row.Name,
		&row.Phone,
		&row.Source,
		&row.EstimatedBudget,
		&row.Status,
		&row.ContactedAt,
		&row.QualifiedAt,
		&row.ConvertedAt,
		&row.LostAt,
		&row.ConvertedDealID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return lead.Lead{}, lead.ErrNotFound
	}
	if err != nil {
		return lead.Lead{}, errors.Wrap(err, "failed to query lead")
	}
	return toDomainLead(&row), nil
}

func (r *LeadRepository) List(ctx context.Context, params *lead.FindParams) ([]lead.Lead, error) {
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
		if params.Status != "" {
			where = append(where, fmt.Sprintf("status = $%d", argPos))
			args = append(args, string(params.Status))
		}
	}

	query := selectLeadsQuery + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list leads")
	}
	defer rows.Close()

	var results []lead.Lead
	for rows.Next() {
		var row models.Lead
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.OwnerID,
			&row.Name,
			&row.Phone,
			&row.Source,
			&row.EstimatedBudget,
			&row.Status,
			&row.ContactedAt,
			&row.QualifiedAt,
			&row.ConvertedAt,
			&row.LostAt,
			&row.ConvertedDealID,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan lead row")
		}
		results = append(results, toDomainLead(&row))
	}
	return results, rows.Err()
}

func (r *LeadRepository) Create(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return lead.Lead{}, err
	}

	row := toDBLead(l)
	if err := tx.QueryRow(
		ctx,
		insertLeadQuery,
		row.ID,
		row.OrganizationID,
		row.OwnerID,
		row.Name,
		row.Phone,
		row.Source,
		row.EstimatedBudget,
		row.Status,
	).Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
		return lead.Lead{}, errors.Wrap(err, "failed to insert lead")
	}
	return toDomainLead(row), nil
}

func (r *LeadRepository) Update(ctx context.Context, l lead.Lead) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	row := toDBLead(l)
	tag, err := tx.Exec(
		ctx,
		updateLeadQuery,
		row.ID,
		row.Name,
		row.Phone,
		row.Source,
		row.EstimatedBudget,
		row.Status,
		row.ContactedAt,
		row.QualifiedAt,
		row.ConvertedAt,
		row.LostAt,
		row.ConvertedDealID,
		orgID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update lead")
	}
	if tag.RowsAffected() == 0 {
		return lead.ErrNotFound
	}
	return nil
}
