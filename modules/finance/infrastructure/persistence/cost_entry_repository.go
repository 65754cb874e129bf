package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/costentry"
	"github.com/pipecrest/brokerage/modules/finance/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/repo"
)

const selectCostEntriesQuery = `
	SELECT id, organization_id, category, description, amount, incurred_at, created_by, created_at
	FROM cost_entries
`

type CostEntryRepository struct{}

func NewCostEntryRepository() costentry.Repository {
	return &CostEntryRepository{}
}

func (r *CostEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (costentry.CostEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return costentry.CostEntry{}, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return costentry.CostEntry{}, err
	}

	var row models.CostEntry
	err = tx.QueryRow(ctx, selectCostEntriesQuery+` WHERE id = $1 AND organization_id = $2`, id, orgID).Scan(
		&row.ID,
		&row.OrganizationID,
		&row.Category,
		&row.Description,
		&row.Amount,
		&row.IncurredAt,
		&row.CreatedBy,
		&row.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return costentry.CostEntry{}, costentry.ErrNotFound
	}
	if err != nil {
		return costentry.CostEntry{}, errors.Wrap(err, "failed to query cost entry")
	}
	return toDomainCostEntry(&row), nil
}

func (r *CostEntryRepository) List(ctx context.Context, params *costentry.FindParams) ([]costentry.CostEntry, error) {
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
		if category := strings.TrimSpace(params.Category); category != "" {
			where = append(where, fmt.Sprintf("category = $%d", argPos))
			args = append(args, category)
			argPos++
		}
		if params.From != nil {
			where = append(where, fmt.Sprintf("incurred_at >= $%d", argPos))
			args = append(args, *params.From)
			argPos++
		}
		if params.To != nil {
			where = append(where, fmt.Sprintf("incurred_at < $%d", argPos))
			args = append(args, *params.To)
		}
	}

	query := selectCostEntriesQuery + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY incurred_at DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cost entries")
	}
	defer rows.Close()

	var results []costentry.CostEntry
	for rows.Next() {
		var row models.CostEntry
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.Category,
			&row.Description,
			&row.Amount,
			&row.IncurredAt,
			&row.CreatedBy,
			&row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan cost entry row")
		}
		results = append(results, toDomainCostEntry(&row))
	}
	return results, rows.Err()
}

func (r *CostEntryRepository) Create(ctx context.Context, entry costentry.CostEntry) (costentry.CostEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return costentry.CostEntry{}, err
	}

	row := toDBCostEntry(entry)
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO cost_entries (id, organization_id, category, description, amount, incurred_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		row.ID,
		row.OrganizationID,
		row.Category,
		row.Description,
		row.Amount,
		row.IncurredAt,
		row.CreatedBy,
	).Scan(&row.CreatedAt); err != nil {
		return costentry.CostEntry{}, errors.Wrap(err, "failed to insert cost entry")
	}
	return toDomainCostEntry(row), nil
}

func toDomainCostEntry(row *models.CostEntry) costentry.CostEntry {
	return costentry.Hydrate(
		row.ID,
		row.OrganizationID,
		row.Category,
		row.Description,
		row.Amount,
		row.IncurredAt,
		row.CreatedBy,
		row.CreatedAt,
	)
}

func toDBCostEntry(entry costentry.CostEntry) *models.CostEntry {
	return &models.CostEntry{
		ID:             entry.ID(),
		OrganizationID: entry.OrganizationID(),
		Category:       entry.Category(),
		Description:    entry.Description(),
		Amount:         entry.Amount(),
		IncurredAt:     entry.IncurredAt(),
		CreatedBy:      entry.CreatedBy(),
		CreatedAt:      entry.CreatedAt(),
	}
}
