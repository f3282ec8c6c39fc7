package appointment

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/retry"
	"github.com/BruksfildServices01/barberbook/internal/session"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	BarberID   uint
	Date       string
	Time       string
	ServiceIDs []uint
	Notes      string
}

// ======================================================
// USE CASE
// ======================================================

// BookAppointment books a slot for the calling client.
type BookAppointment struct {
	placement
}

func NewBookAppointment(
	repo domain.Repository,
	sched Schedule,
	notifier realtime.Notifier,
	dispatcher *audit.Dispatcher,
	log *zap.Logger,
) *BookAppointment {
	return &BookAppointment{placement{
		repo:     repo,
		sched:    sched,
		notifier: notifier,
		audit:    dispatcher,
		log:      log.Named("booking"),
		refetch:  retry.DefaultPolicy(),
	}}
}

func (uc *BookAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	in BookInput,
) (*dto.AppointmentView, error) {

	if sess.Role != session.RoleClient {
		return nil, httperr.ErrBusiness(domain.CodeForbidden)
	}

	lookupCtx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	barber, err := lookupBarber(lookupCtx, uc.repo, in.BarberID)
	if err != nil {
		return nil, err
	}

	catalog, err := uc.repo.GetBarberServices(lookupCtx, barber.ID)
	if err != nil {
		return nil, domain.StorageError("list services", err)
	}
	items, err := selectServices(catalog, in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	clientID := sess.UserID
	return uc.place(ctx, sess, placeRequest{
		barber:   barber,
		clientID: &clientID,
		items:    items,
		date:     in.Date,
		time:     in.Time,
		notes:    strings.TrimSpace(in.Notes),
		action:   audit.ActionAppointmentBooked,
	})
}
