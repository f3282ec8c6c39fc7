package models

import "time"

// User covers all three roles: client, barber and owner. Accounts are
// provisioned by the auth collaborator.
type User struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	BarbershopID *uint `json:"barbershop_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Role  string `gorm:"size:20;default:'client'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
