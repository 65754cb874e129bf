package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/commission"
	"github.com/pipecrest/brokerage/modules/finance/infrastructure/persistence/models"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

const selectCommissionRatesQuery = `
	SELECT id, rate, effective_from, effective_to
	FROM commission_rates
`

type CommissionRepository struct{}

func NewCommissionRepository() commission.Repository {
	return &CommissionRepository{}
}

func (r *CommissionRepository) ListVersions(ctx context.Context, role profile.Role) ([]commission.RateVersion, error) {
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
		selectCommissionRatesQuery+` WHERE organization_id = $1 AND role = $2 ORDER BY effective_from`,
		orgID,
		string(role),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query commission rates")
	}
	defer rows.Close()

	var versions []commission.RateVersion
	for rows.Next() {
		var v commission.RateVersion
		if err := rows.Scan(&v.ID, &v.Value, &v.EffectiveFrom, &v.EffectiveTo); err != nil {
			return nil, errors.Wrap(err, "failed to scan commission rate row")
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *CommissionRepository) GetOpen(ctx context.Context, role profile.Role) (*commission.RateVersion, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	// FOR UPDATE serializes concurrent SetCurrent calls on the same key.
	var v commission.RateVersion
	err = tx.QueryRow(
		ctx,
		selectCommissionRatesQuery+` WHERE organization_id = $1 AND role = $2 AND effective_to IS NULL FOR UPDATE`,
		orgID,
		string(role),
	).Scan(&v.ID, &v.Value, &v.EffectiveFrom, &v.EffectiveTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query open commission rate")
	}
	return &v, nil
}

func (r *CommissionRepository) ExecutePlan(ctx context.Context, role profile.Role, plan temporal.Plan[decimal.Decimal]) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	if plan.CloseID != nil {
		if _, err := tx.Exec(
			ctx,
			`UPDATE commission_rates SET effective_to = $2 WHERE id = $1 AND organization_id = $3`,
			*plan.CloseID,
			plan.CloseAt,
			orgID,
		); err != nil {
			return errors.Wrap(err, "failed to close commission rate version")
		}
	}

	row := models.CommissionRate{
		ID:             plan.Insert.ID,
		OrganizationID: orgID,
		Role:           string(role),
		Rate:           plan.Insert.Value,
		EffectiveFrom:  plan.Insert.EffectiveFrom,
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO commission_rates (id, organization_id, role, rate, effective_from)
		 VALUES ($1, $2, $3, $4, $5)`,
		row.ID,
		row.OrganizationID,
		row.Role,
		row.Rate,
		row.EffectiveFrom,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert commission rate version")
	}
	return nil
}
