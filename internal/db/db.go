package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barberbook/internal/config"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/retry"
)

// Partial unique index backing the overlap check: two live appointments
// can never share a barber, day and start time.
const activeSlotIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
ON appointments (barber_id, appointment_date, appointment_time)
WHERE status <> 'cancelled'`

// NewDB opens the pool, retrying while the database comes up, and
// migrates the schema.
func NewDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	policy := retry.Policy{
		MaxAttempts: 10,
		MaxElapsed:  30 * time.Second,
		Initial:     500 * time.Millisecond,
		Max:         5 * time.Second,
	}

	attempt := 0
	db, err := retry.Do(ctx, policy, func() (*gorm.DB, error) {
		attempt++
		db, err := open(ctx, cfg.DBUrl, level)
		if err != nil {
			log.Warn("database not ready", zap.Int("attempt", attempt), zap.Error(err))
		}
		return db, err
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.Int("attempts", attempt))
	return db, nil
}

func open(ctx context.Context, dsn string, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.BarberService{},
		&models.WorkingHours{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("create slot index: %w", err)
	}
	return nil
}

// Ping reports whether the pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
