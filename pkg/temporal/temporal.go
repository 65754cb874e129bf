// Package temporal implements effective-dated versioning shared by the
// commission and salary configuration stores. A value's history is a
// sequence of half-open intervals [from, to) with the current version
// carrying a nil close date.
package temporal

import (
	"time"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/pkg/serrors"
)

var (
	ErrNotCovered = serrors.NewError(serrors.CodeNotFound, "no version covers the instant", "")
	ErrConflict   = serrors.NewError(serrors.CodeConfigConflict, "version interval conflict", "")
)

// Version is one effective-dated fact. EffectiveTo == nil means the
// version is currently in force.
type Version[V any] struct {
	ID            uuid.UUID
	Value         V
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

// Open reports whether the version is the current one.
func (v Version[V]) Open() bool {
	return v.EffectiveTo == nil
}

// Covers reports whether the version was in force at the given instant.
func (v Version[V]) Covers(at time.Time) bool {
	if v.EffectiveFrom.After(at) {
		return false
	}
	return v.EffectiveTo == nil || !v.EffectiveTo.Before(at)
}

// ResolveAt selects the version in force at the given instant. When
// more than one matches (a prior race left overlapping rows, or the
// instant sits exactly on a close/open boundary) the most recently
// started version wins. A miss is NOT_FOUND, never a zero value: "no
// rate configured" and "rate is zero" are different answers.
func ResolveAt[V any](versions []Version[V], at time.Time) (Version[V], error) {
	var (
		best  Version[V]
		found bool
	)
	for _, v := range versions {
		if !v.Covers(at) {
			continue
		}
		if !found || v.EffectiveFrom.After(best.EffectiveFrom) {
			best = v
			found = true
		}
	}
	if !found {
		return Version[V]{}, ErrNotCovered
	}
	return best, nil
}

// Plan is the close-old/open-new pair produced by PlanSetCurrent. The
// repository executes both mutations inside one transaction; a reader
// must never observe zero or two open versions for the same key.
type Plan[V any] struct {
	// CloseID is the id of the open version to close, nil when the key
	// has no history yet.
	CloseID *uuid.UUID
	// CloseAt is the close date stamped onto the prior version. It
	// equals the new version's EffectiveFrom.
	CloseAt time.Time
	Insert  Version[V]
}

// PlanSetCurrent computes the atomic transition from the currently open
// version (nil when none) to a new one starting at effectiveFrom. The
// close date may equal the prior version's start date; starting before
// it would rewrite history and is rejected as a conflict.
func PlanSetCurrent[V any](open *Version[V], value V, effectiveFrom time.Time) (Plan[V], error) {
	if effectiveFrom.IsZero() {
		return Plan[V]{}, ErrConflict.WithDetails("effectiveFrom is required")
	}
	plan := Plan[V]{
		CloseAt: effectiveFrom,
		Insert: Version[V]{
			ID:            uuid.New(),
			Value:         value,
			EffectiveFrom: effectiveFrom,
		},
	}
	if open == nil {
		return plan, nil
	}
	if !open.Open() {
		return Plan[V]{}, ErrConflict.WithDetails("prior version is already closed")
	}
	if effectiveFrom.Before(open.EffectiveFrom) {
		return Plan[V]{}, ErrConflict.WithDetails(
			"new version starts %s before the open version's %s",
			effectiveFrom.Format(time.RFC3339), open.EffectiveFrom.Format(time.RFC3339),
		)
	}
	id := open.ID
	plan.CloseID = &id
	return plan, nil
}
