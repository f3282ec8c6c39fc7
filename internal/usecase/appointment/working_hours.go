package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/session"
)

// ======================================================
// List
// ======================================================

// ListWorkingHours returns the effective hours of all seven weekdays,
// Sunday first.
type ListWorkingHours struct {
	repo  domain.Repository
	sched Schedule
}

func NewListWorkingHours(repo domain.Repository, sched Schedule) *ListWorkingHours {
	return &ListWorkingHours{repo: repo, sched: sched}
}

func (uc *ListWorkingHours) Execute(ctx context.Context, sess session.Session) ([]dto.WorkingDayView, error) {
	if sess.Role != session.RoleBarber {
		return nil, httperr.ErrBusiness(domain.CodeForbidden)
	}

	ctx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	rows, err := uc.repo.ListWorkingHours(ctx, sess.UserID)
	if err != nil {
		return nil, domain.StorageError("list working hours", err)
	}
	return workingWeek(rows, uc.sched.Hours), nil
}

func workingWeek(rows []models.WorkingHours, def domain.DefaultHours) []dto.WorkingDayView {
	byDay := make(map[int]*models.WorkingHours, len(rows))
	for i := range rows {
		byDay[rows[i].Weekday] = &rows[i]
	}

	week := make([]dto.WorkingDayView, 0, 7)
	for day := 0; day < 7; day++ {
		w := domain.EffectiveWindow(byDay[day], def)
		week = append(week, dto.WorkingDayView{
			Weekday: day,
			Active:  !w.Closed(),
			Start:   w.Start,
			End:     w.End,
			Source:  w.Source,
		})
	}
	return week
}

// ======================================================
// Update
// ======================================================

type WorkingDayInput struct {
	Weekday   int
	Active    bool
	StartTime string
	EndTime   string
}

type UpdateWorkingHours struct {
	repo     domain.Repository
	sched    Schedule
	notifier realtime.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewUpdateWorkingHours(
	repo domain.Repository,
	sched Schedule,
	notifier realtime.Notifier,
	dispatcher *audit.Dispatcher,
	log *zap.Logger,
) *UpdateWorkingHours {
	return &UpdateWorkingHours{
		repo:     repo,
		sched:    sched,
		notifier: notifier,
		audit:    dispatcher,
		log:      log.Named("working_hours"),
	}
}

// Execute upserts the given weekdays; days not listed keep their rows.
func (uc *UpdateWorkingHours) Execute(
	ctx context.Context,
	sess session.Session,
	days []WorkingDayInput,
) ([]dto.WorkingDayView, error) {

	if sess.Role != session.RoleBarber {
		return nil, httperr.ErrBusiness(domain.CodeForbidden)
	}
	if len(days) == 0 {
		return nil, httperr.ErrBusiness(domain.CodeInvalidWorkingHours)
	}

	seen := make(map[int]bool, len(days))
	rows := make([]models.WorkingHours, 0, len(days))
	for _, d := range days {
		row := models.WorkingHours{
			BarberID:  sess.UserID,
			Weekday:   d.Weekday,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		}
		if seen[d.Weekday] || !domain.ValidateWorkingDay(row) {
			return nil, httperr.ErrBusiness(domain.CodeInvalidWorkingHours)
		}
		seen[d.Weekday] = true

		// Inactive days keep their hours only when they are valid.
		row.StartTime, _ = domain.NormalizeClock(row.StartTime)
		row.EndTime, _ = domain.NormalizeClock(row.EndTime)
		rows = append(rows, row)
	}

	storeCtx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	if err := uc.repo.UpsertWorkingHours(storeCtx, sess.UserID, rows); err != nil {
		return nil, domain.StorageError("upsert working hours", err)
	}

	all, err := uc.repo.ListWorkingHours(storeCtx, sess.UserID)
	if err != nil {
		return nil, domain.StorageError("list working hours", err)
	}

	publish(ctx, uc.notifier, uc.log, realtime.Event{
		BarberID: sess.UserID,
		Kind:     realtime.KindHoursChanged,
		At:       uc.sched.Clock.Now(),
	})

	userID := sess.UserID
	uc.audit.Dispatch(audit.Event{
		BarbershopID: sess.BarbershopID,
		UserID:       &userID,
		Action:       audit.ActionWorkingHoursUpdated,
		Entity:       audit.EntityWorkingHours,
		Metadata:     days,
	})

	return workingWeek(all, uc.sched.Hours), nil
}
