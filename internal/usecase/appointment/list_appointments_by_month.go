package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/session"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo  domain.Repository
	sched Schedule
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
	sched Schedule,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo:  repo,
		sched: sched,
	}
}

// Execute lists the non-cancelled appointments of month "YYYY-MM".
func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	sess session.Session,
	barberID uint,
	month string,
) ([]dto.AppointmentView, error) {

	first, last, err := timezone.MonthBounds(month, uc.sched.location())
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	ctx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	barber, err := calendarBarber(ctx, uc.repo, sess, barberID)
	if err != nil {
		return nil, err
	}

	apps, err := uc.repo.ListAppointmentsInRange(
		ctx,
		barber.ID,
		first.Format(timezone.DateLayout),
		last.Format(timezone.DateLayout),
	)
	if err != nil {
		return nil, domain.StorageError("list appointments", err)
	}

	return dto.NewAppointmentViews(withoutCancelled(apps), uc.sched.location(), uc.sched.Clock.Now()), nil
}
