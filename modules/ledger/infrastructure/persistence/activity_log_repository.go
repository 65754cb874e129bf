package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/modules/ledger/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/repo"
)

type ActivityLogRepository struct{}

func NewActivityLogRepository() activitylog.Repository {
	return &ActivityLogRepository{}
}

func (r *ActivityLogRepository) List(ctx context.Context, params *activitylog.FindParams) ([]*activitylog.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildActivityLogFilters(params, orgID)
	query := `
		SELECT id, organization_id, actor_id, action, entity_type, entity_id, metadata, created_at
		FROM activity_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query activity logs")
	}
	defer rows.Close()

	var results []*activitylog.Entry
	for rows.Next() {
		var row models.ActivityLog
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.ActorID,
			&row.Action,
			&row.EntityType,
			&row.EntityID,
			&row.Metadata,
			&row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan activity log row")
		}
		entry, err := toDomainEntry(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ActivityLogRepository) Count(ctx context.Context, params *activitylog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildActivityLogFilters(params, orgID)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_logs
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count activity logs")
	}
	return count, nil
}

func (r *ActivityLogRepository) Create(ctx context.Context, entry *activitylog.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBEntry(entry)
	if dbRow.CreatedAt.IsZero() {
		dbRow.CreatedAt = time.Now()
	}

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO activity_logs (organization_id, actor_id, action, entity_type, entity_id, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		dbRow.OrganizationID,
		dbRow.ActorID,
		dbRow.Action,
		dbRow.EntityType,
		dbRow.EntityID,
		dbRow.Metadata,
		dbRow.CreatedAt,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return errors.Wrap(err, "failed to insert activity log")
	}
	return nil
}

func buildActivityLogFilters(params *activitylog.FindParams, orgID uuid.UUID) ([]string, []interface{}) {
	where := []string{"organization_id = $1"}
	args := []interface{}{orgID}
	argPos := 2
	if params == nil {
		return where, args
	}

	if params.ActorID != nil {
		where = append(where, fmt.Sprintf("actor_id = $%d", argPos))
		args = append(args, *params.ActorID)
		argPos++
	}
	if action := strings.TrimSpace(params.Action); action != "" {
		where = append(where, fmt.Sprintf("action = $%d", argPos))
		args = append(args, action)
		argPos++
	}
	if entityType := strings.TrimSpace(params.EntityType); entityType != "" {
		where = append(where, fmt.Sprintf("entity_type = $%d", argPos))
		args = append(args, entityType)
		argPos++
	}
	if params.EntityID != nil {
		where = append(where, fmt.Sprintf("entity_id = $%d", argPos))
		args = append(args, *params.EntityID)
		argPos++
	}
	if params.From != nil && !params.From.IsZero() {
		where = append(where, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *params.From)
		argPos++
	}
	if params.To != nil && !params.To.IsZero() {
		where = append(where, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *params.To)
	}
	return where, args
}
