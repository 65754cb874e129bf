package lead

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLead_FunnelTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusNew, StatusContacted, true},
		{StatusContacted, StatusQualified, true},
		{StatusQualified, StatusConverted, true},
		{StatusQualified, StatusUnqualified, true},
		{StatusQualified, StatusLost, true},
		{StatusNew, StatusQualified, false},
		{StatusNew, StatusConverted, false},
		{StatusContacted, StatusConverted, false},
		{StatusContacted, StatusNew, false},
		{StatusConverted, StatusQualified, false},
		{StatusLost, StatusQualified, false},
		{StatusUnqualified, StatusNew, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestLead_WithStatusStampsMilestoneOnce(t *testing.T) {
	l := New(uuid.New(), uuid.New(), "Client", "+20100000000", "referral", decimal.Zero)
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	contacted, err := l.WithStatus(StatusContacted, first)
	require.NoError(t, err)
	require.NotNil(t, contacted.ContactedAt())
	require.Equal(t, first, *contacted.ContactedAt())

	// Repeating the current status is a no-op and keeps the stamp.
	later := first.Add(48 * time.Hour)
	again, err := contacted.WithStatus(StatusContacted, later)
	require.NoError(t, err)
	require.Equal(t, StatusContacted, again.Status())
	require.Equal(t, first, *again.ContactedAt())
}

func TestLead_InvalidTransitionIsRejected(t *testing.T) {
	l := New(uuid.New(), uuid.New(), "Client", "", "", decimal.Zero)

	_, err := l.WithStatus(StatusQualified, time.Now())
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = l.WithStatus(StatusConverted, time.Now())
	require.ErrorIs(t, err, ErrInvalidTransition)
}
