package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/session"
)

// ListClientAppointments returns every appointment the caller booked,
// cancelled ones included, with past ones flagged.
type ListClientAppointments struct {
	repo  domain.Repository
	sched Schedule
}

func NewListClientAppointments(repo domain.Repository, sched Schedule) *ListClientAppointments {
	return &ListClientAppointments{repo: repo, sched: sched}
}

func (uc *ListClientAppointments) Execute(
	ctx context.Context,
	sess session.Session,
) ([]dto.AppointmentView, error) {

	if sess.Role != session.RoleClient {
		return nil, httperr.ErrBusiness(domain.CodeForbidden)
	}

	ctx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	apps, err := uc.repo.ListClientAppointments(ctx, sess.UserID)
	if err != nil {
		return nil, domain.StorageError("list client appointments", err)
	}

	return dto.NewAppointmentViews(apps, uc.sched.location(), uc.sched.Clock.Now()), nil
}
