package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/session"
)

// transition moves an appointment to target status. The update is a
// compare-and-swap on the status read, so two racing transitions cannot
// both win.
type transition struct {
	repo     domain.Repository
	sched    Schedule
	notifier realtime.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger

	target    domain.Status
	kind      realtime.Kind
	action    string
	authorize func(sess session.Session, ap *models.Appointment) bool

	// barberOnly limits the action to the barber on the appointment;
	// others who can see it get forbidden.
	barberOnly bool
}

func (t *transition) Execute(
	ctx context.Context,
	sess session.Session,
	appointmentID uint,
) (*dto.AppointmentView, error) {

	storeCtx, cancel := t.sched.storageContext(ctx)
	defer cancel()

	ap, err := t.repo.GetAppointment(storeCtx, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(domain.CodeAppointmentNotFound)
	}
	if err != nil {
		return nil, domain.StorageError("get appointment", err)
	}

	if !t.authorize(sess, ap) {
		// Do not reveal appointments of other barbers or clients.
		return nil, httperr.ErrBusiness(domain.CodeAppointmentNotFound)
	}
	if t.barberOnly && sess.Role != session.RoleBarber {
		return nil, httperr.ErrBusiness(domain.CodeForbidden)
	}

	now := t.sched.Clock.Now()
	from, err := domain.Transition(ap, t.target, now)
	if err != nil {
		return nil, err
	}

	if err := t.repo.UpdateAppointmentStatus(storeCtx, ap, from); err != nil {
		if errors.Is(err, domain.ErrStaleStatus) {
			return nil, httperr.ErrBusiness(domain.CodeInvalidState)
		}
		return nil, domain.StorageError("update appointment status", err)
	}

	publish(ctx, t.notifier, t.log, realtime.Event{
		BarberID:      ap.BarberID,
		AppointmentID: ap.ID,
		Date:          ap.AppointmentDate,
		Kind:          t.kind,
		At:            now,
	})

	userID := sess.UserID
	t.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       &userID,
		Action:       t.action,
		Entity:       audit.EntityAppointment,
		EntityID:     &ap.ID,
		Metadata: map[string]string{
			"from": string(from),
			"to":   string(t.target),
			"role": string(sess.Role),
		},
	})

	view := dto.NewAppointmentView(ap, t.sched.location(), now)
	return &view, nil
}

// ======================================================
// Confirm / Cancel / Complete
// ======================================================

// ConfirmAppointment is the barber's own action on their calendar.
type ConfirmAppointment struct{ transition }

func NewConfirmAppointment(
	repo domain.Repository,
	sched Schedule,
	notifier realtime.Notifier,
	dispatcher *audit.Dispatcher,
	log *zap.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{transition{
		repo: repo, sched: sched, notifier: notifier, audit: dispatcher,
		log:        log.Named("confirm"),
		target:     domain.StatusConfirmed,
		kind:       realtime.KindConfirmed,
		action:     audit.ActionAppointmentConfirmed,
		authorize:  session.Session.CanManage,
		barberOnly: true,
	}}
}

// CancelAppointment is open to the staff managing the appointment and to
// the client who booked it.
type CancelAppointment struct{ transition }

func NewCancelAppointment(
	repo domain.Repository,
	sched Schedule,
	notifier realtime.Notifier,
	dispatcher *audit.Dispatcher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{transition{
		repo: repo, sched: sched, notifier: notifier, audit: dispatcher,
		log:    log.Named("cancel"),
		target: domain.StatusCancelled,
		kind:   realtime.KindCancelled,
		action: audit.ActionAppointmentCancelled,
		authorize: func(sess session.Session, ap *models.Appointment) bool {
			return sess.CanManage(ap) || sess.Owns(ap)
		},
	}}
}

type CompleteAppointment struct{ transition }

func NewCompleteAppointment(
	repo domain.Repository,
	sched Schedule,
	notifier realtime.Notifier,
	dispatcher *audit.Dispatcher,
	log *zap.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{transition{
		repo: repo, sched: sched, notifier: notifier, audit: dispatcher,
		log:       log.Named("complete"),
		target:    domain.StatusCompleted,
		kind:      realtime.KindCompleted,
		action:    audit.ActionAppointmentCompleted,
		authorize: session.Session.CanManage,
	}}
}
