package realtime

import (
	"context"
	"time"
)

type Kind string

const (
	KindBooked    Kind = "booked"
	KindConfirmed Kind = "confirmed"
	KindCancelled Kind = "cancelled"
	KindCompleted Kind = "completed"

	// Working hours changed; every date may be affected.
	KindHoursChanged Kind = "hours_changed"
)

// Event says that a barber's appointments changed. Subscribers re-fetch;
// events carry no state.
type Event struct {
	BarberID      uint      `json:"barber_id"`
	AppointmentID uint      `json:"appointment_id"`
	Date          string    `json:"date"`
	Kind          Kind      `json:"kind"`
	At            time.Time `json:"at"`
}

type Notifier interface {
	Publish(ctx context.Context, ev Event) error

	// Subscribe returns a channel of events for barberID and a function
	// that releases it. The channel is closed on release.
	Subscribe(barberID uint) (<-chan Event, func())
}
