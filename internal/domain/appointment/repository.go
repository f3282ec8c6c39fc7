package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type Repository interface {
	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		barberID uint,
	) (*models.User, error)

	// Active services only.
	GetBarberServices(
		ctx context.Context,
		barberID uint,
	) ([]models.BarberService, error)

	// -------- Working hours --------

	// Returns nil, nil when the barber has no row for the weekday.
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListWorkingHours(
		ctx context.Context,
		barberID uint,
	) ([]models.WorkingHours, error)

	UpsertWorkingHours(
		ctx context.Context,
		barberID uint,
		days []models.WorkingHours,
	) error

	// -------- Appointment (read) --------

	// All statuses; callers filter cancelled rows.
	ListAppointments(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.Appointment, error)

	// Dates are inclusive "YYYY-MM-DD" bounds.
	ListAppointmentsInRange(
		ctx context.Context,
		barberID uint,
		from string,
		to string,
	) ([]models.Appointment, error)

	ListClientAppointments(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)

	// Preloads barber, barbershop and client.
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	// -------- Appointment (write) --------

	// InsertAppointment stores ap only if it does not overlap another
	// non-cancelled appointment of the same barber and day; otherwise it
	// returns ErrSlotTaken. The check and the insert are atomic.
	InsertAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateAppointmentStatus succeeds only while the row still has status
	// from; otherwise it returns ErrStaleStatus.
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error
}

// AvailabilityInput selects a barber's day and the services to fit.
type AvailabilityInput struct {
	BarberID uint
	Date     time.Time
	Services []ServiceItem
}

type AvailabilityResult struct {
	Date        string `json:"date"`
	DurationMin int    `json:"duration_min"`
	Window      Window `json:"working_hours"`
	Slots       []Slot `json:"slots"`
}

// Available returns the bookable slots in order.
func (r AvailabilityResult) Available() []Slot {
	out := make([]Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.IsAvailable {
			out = append(out, s)
		}
	}
	return out
}
