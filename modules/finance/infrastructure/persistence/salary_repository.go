package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/finance/domain/entities/salary"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

const selectSalariesQuery = `
	SELECT id, amount, effective_from, effective_to
	FROM salaries
`

type SalaryRepository struct{}

func NewSalaryRepository() salary.Repository {
	return &SalaryRepository{}
}

func (r *SalaryRepository) ListVersions(ctx context.Context, employeeID uuid.UUID) ([]salary.SalaryVersion, error) {
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
		selectSalariesQuery+` WHERE organization_id = $1 AND employee_id = $2 ORDER BY effective_from`,
		orgID,
		employeeID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query salaries")
	}
	defer rows.Close()

	var versions []salary.SalaryVersion
	for rows.Next() {
		var v salary.SalaryVersion
		if err := rows.Scan(&v.ID, &v.Value, &v.EffectiveFrom, &v.EffectiveTo); err != nil {
			return nil, errors.Wrap(err, "failed to scan salary row")
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *SalaryRepository) GetOpen(ctx context.Context, employeeID uuid.UUID) (*salary.SalaryVersion, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var v salary.SalaryVersion
	err = tx.QueryRow(
		ctx,
		selectSalariesQuery+` WHERE organization_id = $1 AND employee_id = $2 AND effective_to IS NULL FOR UPDATE`,
		orgID,
		employeeID,
	).Scan(&v.ID, &v.Value, &v.EffectiveFrom, &v.EffectiveTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query open salary")
	}
	return &v, nil
}

func (r *SalaryRepository) ExecutePlan(ctx context.Context, employeeID uuid.UUID, plan temporal.Plan[decimal.Decimal]) error {
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
			`UPDATE salaries SET effective_to = $2 WHERE id = $1 AND organization_id = $3`,
			*plan.CloseID,
			plan.CloseAt,
			orgID,
		); err != nil {
			return errors.Wrap(err, "failed to close salary version")
		}
	}

	_, err = tx.Exec(
		ctx,
		`INSERT INTO salaries (id, organization_id, employee_id, amount, effective_from)
		 VALUES ($1, $2, $3, $4, $5)`,
		plan.Insert.ID,
		orgID,
		employeeID,
		plan.Insert.Value,
		plan.Insert.EffectiveFrom,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert salary version")
	}
	return nil
}
