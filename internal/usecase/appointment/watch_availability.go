package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

// AvailabilityUpdate is one recomputation of a watched day.
type AvailabilityUpdate struct {
	Result domain.AvailabilityResult
	Err    error
}

// WatchAvailability keeps a day's slot list current: it emits the list
// once, then again after every change to the barber's appointments.
type WatchAvailability struct {
	engine   *GetAvailability
	notifier realtime.Notifier
	log      *zap.Logger
}

func NewWatchAvailability(engine *GetAvailability, notifier realtime.Notifier, log *zap.Logger) *WatchAvailability {
	return &WatchAvailability{engine: engine, notifier: notifier, log: log.Named("watch")}
}

// Execute returns a channel of updates that is closed when ctx ends or
// the notifier shuts down.
func (uc *WatchAvailability) Execute(ctx context.Context, in domain.AvailabilityInput) <-chan AvailabilityUpdate {
	out := make(chan AvailabilityUpdate, 1)
	events, unsubscribe := uc.notifier.Subscribe(in.BarberID)
	date := timezone.StartOfDay(in.Date.In(uc.engine.sched.location())).Format(timezone.DateLayout)

	go func() {
		defer close(out)
		defer unsubscribe()

		if !uc.emit(ctx, out, in) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Date != "" && ev.Date != date {
					continue
				}
				if !uc.emit(ctx, out, in) {
					return
				}
			}
		}
	}()

	return out
}

func (uc *WatchAvailability) emit(ctx context.Context, out chan<- AvailabilityUpdate, in domain.AvailabilityInput) bool {
	res, err := uc.engine.Execute(ctx, in)
	if err != nil && ctx.Err() == nil {
		uc.log.Warn("recompute availability", zap.Uint("barber_id", in.BarberID), zap.Error(err))
	}

	select {
	case out <- AvailabilityUpdate{Result: res, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}
