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

type ManualBookingInput struct {
	ClientName  string
	ClientPhone string

	ServiceID uint

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CreateManualAppointment lets a barber book a walk-in or phone client
// into their own calendar. The client is kept in the notes.
type CreateManualAppointment struct {
	placement
}

func NewCreateManualAppointment(
	repo domain.Repository,
	sched Schedule,
	notifier realtime.Notifier,
	dispatcher *audit.Dispatcher,
	log *zap.Logger,
) *CreateManualAppointment {
	return &CreateManualAppointment{placement{
		repo:     repo,
		sched:    sched,
		notifier: notifier,
		audit:    dispatcher,
		log:      log.Named("manual_booking"),
		refetch:  retry.DefaultPolicy(),
	}}
}

func (uc *CreateManualAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	in ManualBookingInput,
) (*dto.AppointmentView, error) {

	if sess.Role != session.RoleBarber {
		return nil, httperr.ErrBusiness(domain.CodeForbidden)
	}

	name := strings.TrimSpace(in.ClientName)
	phone := strings.TrimSpace(in.ClientPhone)
	// Both go on the first notes line; the phone must not contain the
	// name separator.
	if name == "" || phone == "" ||
		strings.ContainsAny(name, "\r\n") ||
		strings.ContainsAny(phone, "\r\n,") {
		return nil, httperr.ErrBusiness(domain.CodeInvalidClient)
	}

	lookupCtx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	barber, err := lookupBarber(lookupCtx, uc.repo, sess.UserID)
	if err != nil {
		return nil, err
	}

	catalog, err := uc.repo.GetBarberServices(lookupCtx, barber.ID)
	if err != nil {
		return nil, domain.StorageError("list services", err)
	}
	items, err := selectServices(catalog, []uint{in.ServiceID})
	if err != nil {
		return nil, err
	}

	return uc.place(ctx, sess, placeRequest{
		barber: barber,
		items:  items,
		date:   in.Date,
		time:   in.Time,
		notes:  domain.FormatManualNotes(name, phone, in.Notes),
		action: audit.ActionAppointmentManual,
	})
}
