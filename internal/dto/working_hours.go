package dto

import domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"

type WorkingDayView struct {
	Weekday int                 `json:"weekday"`
	Active  bool                `json:"active"`
	Start   string              `json:"start_time,omitempty"`
	End     string              `json:"end_time,omitempty"`
	Source  domain.WindowSource `json:"source"`
}

type ServiceView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
}
