package models

import "time"

type WorkingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_working_hours_barber_weekday" json:"barber_id"`

	// time.Weekday: 0 = Sunday.
	Weekday int `gorm:"uniqueIndex:idx_working_hours_barber_weekday" json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
