package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

// GetAvailability computes a barber's slots for one day.
type GetAvailability struct {
	repo  domain.Repository
	sched Schedule
	log   *zap.Logger
}

func NewGetAvailability(repo domain.Repository, sched Schedule, log *zap.Logger) *GetAvailability {
	return &GetAvailability{repo: repo, sched: sched, log: log.Named("availability")}
}

// Execute returns the candidate slots of the day, each marked available
// unless it overlaps a non-cancelled appointment. Slots that do not start
// after the current time are dropped. A storage failure yields no slots and
// an error wrapping domain.ErrStorageUnavailable.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (domain.AvailabilityResult, error) {

	loc := uc.sched.location()
	date := timezone.StartOfDay(in.Date.In(loc))

	total := domain.SelectionDuration(in.Services)
	res := domain.AvailabilityResult{
		Date:        date.Format(timezone.DateLayout),
		DurationMin: total,
		Slots:       []domain.Slot{},
	}
	if total <= 0 {
		return res, nil
	}

	ctx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	// --------------------------------------------------
	// Working window
	// --------------------------------------------------
	wh, err := uc.repo.GetWorkingHours(ctx, in.BarberID, int(date.Weekday()))
	if err != nil {
		uc.log.Error("load working hours", zap.Uint("barber_id", in.BarberID), zap.Error(err))
		return res, domain.StorageError("get working hours", err)
	}

	res.Window = domain.EffectiveWindow(wh, uc.sched.Hours)
	if res.Window.Closed() {
		return res, nil
	}

	// --------------------------------------------------
	// Existing bookings
	// --------------------------------------------------
	apps, err := uc.repo.ListAppointments(ctx, in.BarberID, res.Date)
	if err != nil {
		uc.log.Error("load appointments",
			zap.Uint("barber_id", in.BarberID),
			zap.String("date", res.Date),
			zap.Error(err),
		)
		return res, domain.StorageError("list appointments", err)
	}
	busy := domain.BlockingIntervals(apps, loc)

	// --------------------------------------------------
	// Slots
	// --------------------------------------------------
	now := uc.sched.Clock.Now()
	today := timezone.SameDay(date, now.In(loc))
	length := time.Duration(total) * time.Minute

	for _, hm := range domain.GenerateSlots(res.Window.Start, res.Window.End, total) {
		start, ok := domain.At(date, hm)
		if !ok {
			continue
		}
		// Only today is cut at now. Other dates are listed as is and the
		// booking writer rejects starts in the past.
		if today && !start.After(now) {
			continue
		}
		iv := domain.Interval{Start: start, End: start.Add(length)}

		res.Slots = append(res.Slots, domain.Slot{
			Start:       iv.Start,
			End:         iv.End,
			IsAvailable: !domain.ConflictsWith(iv, busy),
		})
	}

	return res, nil
}
