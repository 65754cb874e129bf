package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/clientrequest"
	"github.com/pipecrest/brokerage/modules/crm/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/repo"
)

const (
	selectClientRequestsQuery = `
		SELECT id, organization_id, owner_id, team_leader_id, client_name, details, estimated_budget, status,
		       decided_at, decided_by, converted_deal_id, created_at, updated_at
		FROM client_requests
	`
	insertClientRequestQuery = `
		INSERT INTO client_requests (id, organization_id, owner_id, team_leader_id, client_name, details, estimated_budget, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	updateClientRequestQuery = `
		UPDATE client_requests
		SET team_leader_id = $2, client_name = $3, details = $4, estimated_budget = $5, status = $6,
		    decided_at = $7, decided_by = $8, converted_deal_id = $9, updated_at = now()
		WHERE id = $1 AND organization_id = $10
	`
)

type ClientRequestRepository struct{}

func NewClientRequestRepository() clientrequest.Repository {
	return &ClientRequestRepository{}
}

func (r *ClientRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (clientrequest.ClientRequest, error) {
	return r.getByID(ctx, id, "")
}

func (r *ClientRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (clientrequest.ClientRequest, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *ClientRequestRepository) getByID(ctx context.Context, id uuid.UUID, suffix string) (clientrequest.ClientRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}

	var row models.ClientRequest
	err = tx.QueryRow(ctx, selectClientRequestsQuery+` WHERE id = $1 AND organization_id = $2`+suffix, id, orgID).Scan(
		&row.ID,
		&row.OrganizationID,
		&row.OwnerID,
		&row.TeamLeaderID,
		&row.ClientName,
		&row.Details,
		&row.EstimatedBudget,
		&row.Status,
		&row.DecidedAt,
		&row.DecidedBy,
		&row.ConvertedDealID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return clientrequest.ClientRequest{}, clientrequest.ErrNotFound
	}
	if err != nil {
		return clientrequest.ClientRequest{}, errors.Wrap(err, "failed to query client request")
	}
	return toDomainClientRequest(&row), nil
}

func (r *ClientRequestRepository) List(ctx context.Context, params *clientrequest.FindParams) ([]clientrequest.ClientRequest, error) {
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
		if params.TeamLeaderID != nil {
			where = append(where, fmt.Sprintf("team_leader_id = $%d", argPos))
			args = append(args, *params.TeamLeaderID)
			argPos++
		}
		if params.Status != "" {
			where = append(where, fmt.Sprintf("status = $%d", argPos))
			args = append(args, string(params.Status))
		}
	}

	query := selectClientRequestsQuery + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list client requests")
	}
	defer rows.Close()

	var results []clientrequest.ClientRequest
	for rows.Next() {
		var row models.ClientRequest
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.OwnerID,
			&row.TeamLeaderID,
			&row.ClientName,
			&row.Details,
			&row.EstimatedBudget,
			&row.Status,
			&row.DecidedAt,
			&row.DecidedBy,
			&row.ConvertedDealID,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan client request row")
		}
		results = append(results, toDomainClientRequest(&row))
	}
	return results, rows.Err()
}

func (r *ClientRequestRepository) Create(ctx context.Context, req clientrequest.ClientRequest) (clientrequest.ClientRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return clientrequest.ClientRequest{}, err
	}

	row := toDBClientRequest(req)
	if err := tx.QueryRow(
		ctx,
		insertClientRequestQuery,
		row.ID,
		row.OrganizationID,
		row.OwnerID,
		row.TeamLeaderID,
		row.ClientName,
		row.Details,
		row.EstimatedBudget,
		row.Status,
	).Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
		return clientrequest.ClientRequest{}, errors.Wrap(err, "failed to insert client request")
	}
	return toDomainClientRequest(row), nil
}

func (r *ClientRequestRepository) Update(ctx context.Context, req clientrequest.ClientRequest) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	row := toDBClientRequest(req)
	tag, err := tx.Exec(
		ctx,
		updateClientRequestQuery,
		row.ID,
		row.TeamLeaderID,
		row.ClientName,
		row.Details,
		row.EstimatedBudget,
		row.Status,
		row.DecidedAt,
		row.DecidedBy,
		row.ConvertedDealID,
		orgID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update client request")
	}
	if tag.RowsAffected() == 0 {
		return clientrequest.ErrNotFound
	}
	return nil
}
