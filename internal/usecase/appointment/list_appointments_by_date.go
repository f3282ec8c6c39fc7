package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/session"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

// ListAppointmentsByDate builds a barber's calendar day. Cancelled
// appointments are left out.
type ListAppointmentsByDate struct {
	repo  domain.Repository
	sched Schedule
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	sched Schedule,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:  repo,
		sched: sched,
	}
}

// Execute reads barberID's day; zero means the caller's own calendar.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
	date string,
) (*dto.DayCalendar, error) {

	day, err := uc.sched.Clock.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	ctx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	barber, err := calendarBarber(ctx, uc.repo, sess, barberID)
	if err != nil {
		return nil, err
	}

	wh, err := uc.repo.GetWorkingHours(ctx, barber.ID, int(day.Weekday()))
	if err != nil {
		return nil, domain.StorageError("get working hours", err)
	}

	apps, err := uc.repo.ListAppointments(ctx, barber.ID, day.Format(timezone.DateLayout))
	if err != nil {
		return nil, domain.StorageError("list appointments", err)
	}

	return &dto.DayCalendar{
		Date:         day.Format(timezone.DateLayout),
		BarberID:     barber.ID,
		WorkingHours: domain.EffectiveWindow(wh, uc.sched.Hours),
		Appointments: dto.NewAppointmentViews(withoutCancelled(apps), uc.sched.location(), uc.sched.Clock.Now()),
	}, nil
}

func withoutCancelled(apps []models.Appointment) []models.Appointment {
	out := apps[:0:0]
	for _, ap := range apps {
		if domain.Status(ap.Status).BlocksSlots() {
			out = append(out, ap)
		}
	}
	return out
}
