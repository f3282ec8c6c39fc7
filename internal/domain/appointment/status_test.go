package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

func TestTransitions(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	allowed := map[Status][]Status{
		StatusBooked:    {StatusConfirmed, StatusCancelled, StatusCompleted},
		StatusConfirmed: {StatusCancelled, StatusCompleted},
		StatusCancelled: {},
		StatusCompleted: {},
	}
	targets := []Status{StatusConfirmed, StatusCancelled, StatusCompleted, StatusBooked}

	for from, ok := range allowed {
		for _, to := range targets {
			ap := &models.Appointment{Status: string(from)}
			prev, err := Transition(ap, to, now)
			assert.Equal(t, from, prev)

			if contains(ok, to) {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, string(to), ap.Status)
			} else {
				assert.True(t, httperr.IsBusiness(err, CodeInvalidState), "%s -> %s", from, to)
				assert.Equal(t, string(from), ap.Status)
			}
		}
	}
}

func TestTransitionTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusBooked)}
	require.NoError(t, Confirm(ap, now))
	require.NotNil(t, ap.ConfirmedAt)
	require.NoError(t, Cancel(ap, now))
	require.NotNil(t, ap.CancelledAt)
	assert.Nil(t, ap.CompletedAt)
}

func TestStatusBlocksSlots(t *testing.T) {
	assert.True(t, StatusBooked.BlocksSlots())
	assert.True(t, StatusConfirmed.BlocksSlots())
	assert.True(t, StatusCompleted.BlocksSlots())
	assert.False(t, StatusCancelled.BlocksSlots())
	assert.True(t, Status("pending").BlocksSlots())
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
