package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records who changed an appointment and how.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint   `gorm:"index" json:"barbershop_id"`
	UserID       *uint  `json:"user_id"`
	Action       string `gorm:"size:50;not null" json:"action"`

	Entity   string         `gorm:"size:50" json:"entity"`
	EntityID *uint          `gorm:"index" json:"entity_id"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
