package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

type AppointmentGormRepository struct {
	db  *gorm.DB
	loc *time.Location
}

// NewAppointmentGormRepository stores dates and clock times as shop-local
// strings; loc resolves them for overlap checks.
func NewAppointmentGormRepository(db *gorm.DB, loc *time.Location) *AppointmentGormRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentGormRepository{db: db, loc: loc}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	barberID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, barberID).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *AppointmentGormRepository) GetBarberServices(
	ctx context.Context,
	barberID uint,
) ([]models.BarberService, error) {

	var services []models.BarberService
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND active = ?", barberID, true).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	barberID uint,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) UpsertWorkingHours(
	ctx context.Context,
	barberID uint,
	days []models.WorkingHours,
) error {

	if len(days) == 0 {
		return nil
	}
	for i := range days {
		days[i].ID = 0
		days[i].BarberID = barberID
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barber_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "active", "updated_at"}),
		}).
		Create(&days).Error
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("barber_id = ? AND appointment_date = ?", barberID, date).
		Order("appointment_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsInRange(
	ctx context.Context,
	barberID uint,
	from string,
	to string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("barber_id = ? AND appointment_date BETWEEN ? AND ?", barberID, from, to).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListClientAppointments(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Barbershop").
		Where("client_id = ?", clientID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Barbershop").
		Preload("Client").
		First(&ap, appointmentID).Error; err != nil {
		return nil, notFound(err)
	}

	return &ap, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

// InsertAppointment serialises bookings per barber and day with a
// transaction-scoped advisory lock, re-checks overlaps against the rows
// committed so far, then inserts. The partial unique index catches
// anything that bypasses this path.
func (r *AppointmentGormRepository) InsertAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	candidate, ok := domain.Occupied(ap, r.loc)
	if !ok {
		return fmt.Errorf("appointment has invalid date or time %q %q", ap.AppointmentDate, ap.AppointmentTime)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(?))",
			lockKey(ap.BarberID, ap.AppointmentDate),
		).Error; err != nil {
			return err
		}

		var sameDay []models.Appointment
		if err := tx.
			Select("id", "appointment_date", "appointment_time", "status", "services").
			Where(
				"barber_id = ? AND appointment_date = ? AND status <> ?",
				ap.BarberID,
				ap.AppointmentDate,
				string(domain.StatusCancelled),
			).
			Find(&sameDay).Error; err != nil {
			return err
		}

		if domain.ConflictsWith(candidate, domain.BlockingIntervals(sameDay, r.loc)) {
			return domain.ErrSlotTaken
		}

		return tx.Omit(clause.Associations).Create(ap).Error
	})

	if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
		return domain.ErrSlotTaken
	}
	return err
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(from)).
		Updates(map[string]any{
			"status":       ap.Status,
			"confirmed_at": ap.ConfirmedAt,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleStatus
	}

	return nil
}

func lockKey(barberID uint, date string) string {
	return fmt.Sprintf("appointments:%d:%s", barberID, date)
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
