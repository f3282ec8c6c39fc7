package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/session"
)

// WatchCalendar subscribes staff to change events of a calendar they may
// read. Clients re-fetch the day on each event.
type WatchCalendar struct {
	repo     domain.Repository
	sched    Schedule
	notifier realtime.Notifier
}

func NewWatchCalendar(repo domain.Repository, sched Schedule, notifier realtime.Notifier) *WatchCalendar {
	return &WatchCalendar{repo: repo, sched: sched, notifier: notifier}
}

func (uc *WatchCalendar) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
) (<-chan realtime.Event, func(), error) {

	lookupCtx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	barber, err := calendarBarber(lookupCtx, uc.repo, sess, barberID)
	if err != nil {
		return nil, nil, err
	}

	events, unsubscribe := uc.notifier.Subscribe(barber.ID)
	return events, unsubscribe, nil
}
