package models

import (
	"time"

	"gorm.io/datatypes"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint       `gorm:"index" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barbershop"`

	BarberID uint `gorm:"index:idx_appointments_barber_date" json:"barber_id"`
	Barber   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	// Nil for walk-ins booked by the barber; see Notes.
	ClientID *uint `gorm:"index" json:"client_id"`
	Client   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	AppointmentDate string `gorm:"size:10;not null;index:idx_appointments_barber_date" json:"appointment_date"`
	AppointmentTime string `gorm:"size:8;not null" json:"appointment_time"`

	Status string `gorm:"size:20;default:'booked'" json:"status"`

	// Array, single object or JSON-encoded string. Read through
	// appointment.NormalizeServices, never directly.
	Services datatypes.JSON `gorm:"type:jsonb" json:"services"`

	Notes string `gorm:"size:500" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
