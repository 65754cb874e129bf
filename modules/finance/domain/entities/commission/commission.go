// Package commission holds the effective-dated commission rate
// configuration. A rate is expressed in EGP per million EGP of deal
// value and is keyed by role within the organization.
package commission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

// RateVersion is one effective-dated rate for a role.
type RateVersion = temporal.Version[decimal.Decimal]

type Repository interface {
	// ListVersions returns the full history for the role, any order.
	ListVersions(ctx context.Context, role profile.Role) ([]RateVersion, error)
	// GetOpen returns the currently open version, nil when the role has
	// no configured rate.
	GetOpen(ctx context.Context, role profile.Role) (*RateVersion, error)
	// ExecutePlan applies a close-old/open-new plan. Both mutations run
	// in the caller's transaction so a reader never observes zero or
	// two open versions for the role.
	ExecutePlan(ctx context.Context, role profile.Role, plan temporal.Plan[decimal.Decimal]) error
}

// Divisor converts a deal value into millions for the rate formula.
var Divisor = decimal.NewFromInt(1_000_000)

// Amount computes the commission a rate yields on a deal value:
// value / 1,000,000 * rate.
func Amount(dealValue, rate decimal.Decimal) decimal.Decimal {
	return dealValue.Mul(rate).Div(Divisor)
}

// RateAt resolves the rate in force at the instant from a history.
func RateAt(versions []RateVersion, at time.Time) (decimal.Decimal, error) {
	v, err := temporal.ResolveAt(versions, at)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return v.Value, nil
}
