package temporal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/pkg/serrors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func closed(from, to time.Time, value int) Version[int] {
	return Version[int]{ID: uuid.New(), Value: value, EffectiveFrom: from, EffectiveTo: &to}
}

func open(from time.Time, value int) Version[int] {
	return Version[int]{ID: uuid.New(), Value: value, EffectiveFrom: from}
}

func TestResolveAtPicksCoveringVersion(t *testing.T) {
	history := []Version[int]{
		closed(date(2024, 1, 1), date(2024, 6, 1), 5000),
		open(date(2024, 6, 1), 6000),
	}

	v, err := ResolveAt(history, date(2024, 3, 15))
	require.NoError(t, err)
	require.Equal(t, 5000, v.Value)

	v, err = ResolveAt(history, date(2025, 1, 1))
	require.NoError(t, err)
	require.Equal(t, 6000, v.Value)
}

func TestResolveAtBoundaryPrefersMostRecentlyStarted(t *testing.T) {
	// The close date of the old version equals the start of the new
	// one, so both cover the boundary instant. The newer wins.
	boundary := date(2024, 6, 1)
	history := []Version[int]{
		closed(date(2024, 1, 1), boundary, 5000),
		open(boundary, 6000),
	}

	v, err := ResolveAt(history, boundary)
	require.NoError(t, err)
	require.Equal(t, 6000, v.Value)
}

func TestResolveAtMissIsNotFoundNotZero(t *testing.T) {
	history := []Version[int]{open(date(2024, 6, 1), 6000)}

	_, err := ResolveAt(history, date(2024, 1, 1))
	require.ErrorIs(t, err, ErrNotCovered)
	require.Equal(t, serrors.CodeNotFound, serrors.Code(err))

	_, err = ResolveAt[int](nil, date(2024, 1, 1))
	require.ErrorIs(t, err, ErrNotCovered)
}

func TestPlanSetCurrentFirstVersion(t *testing.T) {
	plan, err := PlanSetCurrent[int](nil, 6000, date(2024, 6, 1))
	require.NoError(t, err)
	require.Nil(t, plan.CloseID)
	require.Equal(t, 6000, plan.Insert.Value)
	require.True(t, plan.Insert.Open())
	require.Equal(t, date(2024, 6, 1), plan.Insert.EffectiveFrom)
}

func TestPlanSetCurrentClosesPriorAtNewStart(t *testing.T) {
	current := open(date(2024, 1, 1), 5000)

	plan, err := PlanSetCurrent(&current, 6000, date(2024, 6, 1))
	require.NoError(t, err)
	require.NotNil(t, plan.CloseID)
	require.Equal(t, current.ID, *plan.CloseID)
	require.Equal(t, date(2024, 6, 1), plan.CloseAt)
	require.Equal(t, plan.Insert.EffectiveFrom, plan.CloseAt)
}

func TestPlanSetCurrentSameDayReplacement(t *testing.T) {
	// Closing on the open version's own start date produces an empty
	// interval for the old version, which is legal under [from, to).
	current := open(date(2024, 6, 1), 5000)

	plan, err := PlanSetCurrent(&current, 6000, date(2024, 6, 1))
	require.NoError(t, err)
	require.NotNil(t, plan.CloseID)
	require.Equal(t, date(2024, 6, 1), plan.CloseAt)
}

func TestPlanSetCurrentRejectsHistoryRewrite(t *testing.T) {
	current := open(date(2024, 6, 1), 5000)

	_, err := PlanSetCurrent(&current, 6000, date(2024, 1, 1))
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, serrors.CodeConfigConflict, serrors.Code(err))
}

func TestPlanSetCurrentRequiresEffectiveFrom(t *testing.T) {
	_, err := PlanSetCurrent[int](nil, 6000, time.Time{})
	require.ErrorIs(t, err, ErrConflict)
}
