package audit

import (
	"context"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

var _ Sink = (*Logger)(nil)

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	row := models.AuditLog{
		BarbershopID: ev.BarbershopID,
		UserID:       ev.UserID,
		Action:       ev.Action,
		Entity:       ev.Entity,
		EntityID:     ev.EntityID,
		Metadata:     encodeMetadata(ev.Metadata),
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

func encodeMetadata(metadata any) datatypes.JSON {
	if metadata == nil {
		return nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
