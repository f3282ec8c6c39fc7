package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ActionAppointmentBooked    = "appointment.booked"
	ActionAppointmentManual    = "appointment.manual_booked"
	ActionAppointmentConfirmed = "appointment.confirmed"
	ActionAppointmentCancelled = "appointment.cancelled"
	ActionAppointmentCompleted = "appointment.completed"
	ActionWorkingHoursUpdated  = "working_hours.updated"

	EntityAppointment  = "appointment"
	EntityWorkingHours = "working_hours"
)

type Event struct {
	BarbershopID uint
	UserID       *uint
	Action       string
	Entity       string
	EntityID     *uint
	Metadata     any
}

// Dispatcher writes audit events off the request path. When the queue is
// full events are dropped; auditing never fails a request.
type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink, log *zap.Logger) *Dispatcher {
	return newDispatcher(sink, log, 100)
}

func newDispatcher(sink Sink, log *zap.Logger, size int) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log.Named("audit"),
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Write(ctx, ev); err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.Uint("barbershop_id", ev.BarbershopID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	defer func() {
		// Dispatch after Close.
		if recover() != nil {
			d.log.Warn("audit dispatcher closed, dropping event", zap.String("action", ev.Action))
		}
	}()

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for queued ones to be written,
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
