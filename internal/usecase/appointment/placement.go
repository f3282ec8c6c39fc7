package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/retry"
	"github.com/BruksfildServices01/barberbook/internal/session"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

// placement is the insert path shared by client and manual bookings.
type placement struct {
	repo     domain.Repository
	sched    Schedule
	notifier realtime.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
	refetch  retry.Policy
}

type placeRequest struct {
	barber   *models.User
	clientID *uint
	items    []domain.ServiceItem
	date     string
	time     string
	notes    string
	action   string
}

func (p *placement) place(
	ctx context.Context,
	sess session.Session,
	req placeRequest,
) (*dto.AppointmentView, error) {

	// --------------------------------------------------
	// Time range
	// --------------------------------------------------
	start, err := p.sched.Clock.ParseDateTime(strings.TrimSpace(req.date), strings.TrimSpace(req.time))
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	now := p.sched.Clock.Now()
	if !start.After(now) {
		return nil, httperr.ErrBusiness(domain.CodeSlotInPast)
	}

	total := domain.SelectionDuration(req.items)
	if total <= 0 {
		return nil, httperr.ErrBusiness(domain.CodeNoServicesSelected)
	}
	end := start.Add(time.Duration(total) * time.Minute)

	storeCtx, cancel := p.sched.storageContext(ctx)
	defer cancel()

	// --------------------------------------------------
	// Working hours
	// --------------------------------------------------
	wh, err := p.repo.GetWorkingHours(storeCtx, req.barber.ID, int(start.Weekday()))
	if err != nil {
		return nil, domain.StorageError("get working hours", err)
	}
	if !domain.EffectiveWindow(wh, p.sched.Hours).Fits(start, end) {
		return nil, httperr.ErrBusiness(domain.CodeOutsideWorkingHours)
	}

	// --------------------------------------------------
	// Insert (overlap-checked by the store)
	// --------------------------------------------------
	// lookupBarber guarantees a shop.
	shopID := *req.barber.BarbershopID

	ap := &models.Appointment{
		BarbershopID:    shopID,
		BarberID:        req.barber.ID,
		ClientID:        req.clientID,
		AppointmentDate: start.Format(timezone.DateLayout),
		AppointmentTime: start.Format(timezone.ClockLayout),
		Status:          string(domain.InitialStatus()),
		Services:        domain.EncodeServices(req.items),
		Notes:           req.notes,
	}

	if err := p.repo.InsertAppointment(storeCtx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			p.log.Info("slot taken",
				zap.Uint("barber_id", ap.BarberID),
				zap.String("date", ap.AppointmentDate),
				zap.String("time", ap.AppointmentTime),
			)
			return nil, err
		}
		return nil, domain.StorageError("insert appointment", err)
	}

	// --------------------------------------------------
	// Refetch with relations
	// --------------------------------------------------
	full, err := retry.Do(ctx, p.refetch, func() (*models.Appointment, error) {
		rctx, rcancel := p.sched.storageContext(ctx)
		defer rcancel()
		return p.repo.GetAppointment(rctx, ap.ID)
	})
	if err != nil {
		// The row is committed; answer with what we inserted.
		p.log.Warn("refetch booked appointment", zap.Uint("appointment_id", ap.ID), zap.Error(err))
		ap.Barber = *req.barber
		full = ap
	}

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	publish(ctx, p.notifier, p.log, realtime.Event{
		BarberID:      ap.BarberID,
		AppointmentID: ap.ID,
		Date:          ap.AppointmentDate,
		Kind:          realtime.KindBooked,
		At:            now,
	})

	userID := sess.UserID
	p.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       &userID,
		Action:       req.action,
		Entity:       audit.EntityAppointment,
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"date":     ap.AppointmentDate,
			"time":     ap.AppointmentTime,
			"duration": total,
		},
	})

	view := dto.NewAppointmentView(full, p.sched.location(), now)
	return &view, nil
}
