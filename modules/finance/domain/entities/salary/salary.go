// Package salary holds the effective-dated monthly salary per
// employee. The same versioning rules apply as for commission rates.
package salary

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/pkg/temporal"
)

// SalaryVersion is one effective-dated monthly amount for an employee.
type SalaryVersion = temporal.Version[decimal.Decimal]

type Repository interface {
	ListVersions(ctx context.Context, employeeID uuid.UUID) ([]SalaryVersion, error)
	GetOpen(ctx context.Context, employeeID uuid.UUID) (*SalaryVersion, error)
	ExecutePlan(ctx context.Context, employeeID uuid.UUID, plan temporal.Plan[decimal.Decimal]) error
}
