package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
)

func TestUpdateWorkingHours(t *testing.T) {
	h := newHarness(t, dayBefore)
	events, stop := h.hub.Subscribe(barberID)
	defer stop()

	uc := NewUpdateWorkingHours(h.repo, h.sched, h.hub, h.audit, h.log)
	week, err := uc.Execute(context.Background(), barberSession, []WorkingDayInput{
		{Weekday: 2, Active: true, StartTime: "10:00:00", EndTime: "16:00"},
		{Weekday: 0, Active: false},
	})
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.False(t, week[0].Active)
	assert.Equal(t, domain.WindowClosed, week[0].Source)
	assert.Equal(t, domain.WindowDefault, week[1].Source)
	assert.Equal(t, "09:00", week[1].Start)
	assert.Equal(t, "10:00", week[2].Start)
	assert.Equal(t, domain.WindowConfigured, week[2].Source)

	assert.Equal(t, realtime.KindHoursChanged, (<-events).Kind)

	// Availability follows the new hours.
	res := availability(t, h, []domain.ServiceItem{{Duration: 60}})
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00"}, clocks(res.Slots))

	listed, err := NewListWorkingHours(h.repo, h.sched).Execute(context.Background(), barberSession)
	require.NoError(t, err)
	assert.Equal(t, week, listed)
}

func TestUpdateWorkingHours_Invalid(t *testing.T) {
	h := newHarness(t, dayBefore)
	uc := NewUpdateWorkingHours(h.repo, h.sched, h.hub, h.audit, h.log)

	bad := [][]WorkingDayInput{
		nil,
		{{Weekday: 7, Active: false}},
		{{Weekday: 1, Active: true, StartTime: "18:00", EndTime: "09:00"}},
		{{Weekday: 1, Active: true, StartTime: "9am", EndTime: "18:00"}},
		{{Weekday: 1, Active: false}, {Weekday: 1, Active: true, StartTime: "09:00", EndTime: "18:00"}},
	}
	for _, days := range bad {
		_, err := uc.Execute(context.Background(), barberSession, days)
		assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidWorkingHours), "%+v", days)
	}

	_, err := uc.Execute(context.Background(), clientSession, []WorkingDayInput{{Weekday: 1}})
	assert.True(t, httperr.IsBusiness(err, domain.CodeForbidden))
}
