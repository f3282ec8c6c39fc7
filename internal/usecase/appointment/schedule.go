package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/session"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

// Schedule carries the shop-wide scheduling settings shared by the use
// cases.
type Schedule struct {
	Clock          timezone.Clock
	Hours          domain.DefaultHours
	StorageTimeout time.Duration
}

func (s Schedule) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.StorageTimeout)
}

func (s Schedule) location() *time.Location {
	if s.Clock.Loc == nil {
		return time.UTC
	}
	return s.Clock.Loc
}

// ======================================================
// Shared lookups
// ======================================================

func lookupBarber(ctx context.Context, repo domain.Repository, barberID uint) (*models.User, error) {
	barber, err := repo.GetBarber(ctx, barberID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(domain.CodeBarberNotFound)
	}
	if err != nil {
		return nil, domain.StorageError("get barber", err)
	}

	role := session.Role(barber.Role)
	if role != session.RoleBarber && role != session.RoleOwner {
		return nil, httperr.ErrBusiness(domain.CodeBarberNotFound)
	}
	// Appointments belong to a shop; a barber outside one takes none.
	if barber.BarbershopID == nil || *barber.BarbershopID == 0 {
		return nil, httperr.ErrBusiness(domain.CodeBarberNotFound)
	}
	return barber, nil
}

// calendarBarber resolves whose calendar a staff member may read. Zero
// means the caller's own.
func calendarBarber(ctx context.Context, repo domain.Repository, sess session.Session, barberID uint) (*models.User, error) {
	if !sess.IsStaff() {
		return nil, httperr.ErrBusiness(domain.CodeForbidden)
	}
	if barberID == 0 {
		barberID = sess.UserID
	}

	barber, err := lookupBarber(ctx, repo, barberID)
	if err != nil {
		return nil, err
	}

	if barber.ID == sess.UserID {
		return barber, nil
	}
	if sess.Role == session.RoleOwner && barber.BarbershopID != nil && *barber.BarbershopID == sess.BarbershopID {
		return barber, nil
	}
	return nil, httperr.ErrBusiness(domain.CodeForbidden)
}

// selectServices picks ids from the barber's active catalog, in request
// order. Durations always come from the catalog.
func selectServices(catalog []models.BarberService, ids []uint) ([]domain.ServiceItem, error) {
	if len(ids) == 0 {
		return nil, httperr.ErrBusiness(domain.CodeNoServicesSelected)
	}

	byID := make(map[uint]models.BarberService, len(catalog))
	for _, s := range catalog {
		byID[s.ID] = s
	}

	seen := make(map[uint]bool, len(ids))
	items := make([]domain.ServiceItem, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		s, ok := byID[id]
		if !ok || !s.Active || s.DurationMin <= 0 {
			return nil, httperr.ErrBusiness(domain.CodeServiceNotFound)
		}
		items = append(items, domain.ServiceItem{
			ID:       formatID(s.ID),
			Name:     s.Name,
			Duration: s.DurationMin,
			Price:    s.Price,
		})
	}
	return items, nil
}

func publish(ctx context.Context, n realtime.Notifier, log *zap.Logger, ev realtime.Event) {
	if n == nil {
		return
	}
	if err := n.Publish(ctx, ev); err != nil {
		log.Warn("publish appointment event",
			zap.Uint("barber_id", ev.BarberID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err),
		)
	}
}
