package dto

import (
	"time"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

type ClientView struct {
	ID     *uint  `json:"id,omitempty"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Manual bool   `json:"manual"`
}

// AppointmentView is the shape every appointment list and detail uses.
type AppointmentView struct {
	ID             uint   `json:"id"`
	BarbershopID   uint   `json:"barbershop_id"`
	BarbershopName string `json:"barbershop_name,omitempty"`
	BarberID       uint   `json:"barber_id"`
	BarberName     string `json:"barber_name,omitempty"`

	Client *ClientView `json:"client,omitempty"`

	Date        string    `json:"date"`
	Time        string    `json:"time"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`

	Status        string `json:"status"`
	DisplayStatus string `json:"display_status"`
	Past          bool   `json:"past"`

	Services     []domain.ServiceItem `json:"services"`
	ServiceNames []string             `json:"service_names"`
	TotalPrice   float64              `json:"total_price"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAppointmentView derives times and duration through the services
// normalizer, so it agrees with the booking conflict check.
func NewAppointmentView(ap *models.Appointment, loc *time.Location, now time.Time) AppointmentView {
	services := domain.NormalizeServices(ap.Services)
	duration := services.TotalDuration()

	v := AppointmentView{
		ID:             ap.ID,
		BarbershopID:   ap.BarbershopID,
		BarbershopName: ap.Barbershop.Name,
		BarberID:       ap.BarberID,
		BarberName:     ap.Barber.Name,
		Date:           ap.AppointmentDate,
		DurationMin:    duration,
		Status:         ap.Status,
		DisplayStatus:  ap.Status,
		Services:       services.Items,
		ServiceNames:   services.Names(),
		TotalPrice:     services.TotalPrice(),
		Notes:          ap.Notes,
		CreatedAt:      ap.CreatedAt,
	}
	if v.Services == nil {
		v.Services = []domain.ServiceItem{}
	}

	v.Time, _ = domain.NormalizeClock(ap.AppointmentTime)
	if iv, ok := domain.Occupied(ap, loc); ok {
		v.StartTime = iv.Start
		v.EndTime = iv.End
		v.Past = !iv.End.After(now)
	}

	// Past completed visits read the same as past bookings.
	if v.Past && ap.Status == string(domain.StatusCompleted) {
		v.DisplayStatus = string(domain.StatusBooked)
	}

	switch {
	case ap.Client != nil:
		v.Client = &ClientView{ID: ap.ClientID, Name: ap.Client.Name, Phone: ap.Client.Phone}
	case ap.ClientID != nil:
		v.Client = &ClientView{ID: ap.ClientID}
	default:
		if mc, ok := domain.ParseManualNotes(ap.Notes); ok {
			v.Client = &ClientView{Name: mc.Name, Phone: mc.Phone, Manual: true}
			v.Notes = mc.Extra
		}
	}

	return v
}

func NewAppointmentViews(apps []models.Appointment, loc *time.Location, now time.Time) []AppointmentView {
	out := make([]AppointmentView, 0, len(apps))
	for i := range apps {
		out = append(out, NewAppointmentView(&apps[i], loc, now))
	}
	return out
}

// DayCalendar is a barber's day as shown in the calendar.
type DayCalendar struct {
	Date         string            `json:"date"`
	BarberID     uint              `json:"barber_id"`
	WorkingHours domain.Window     `json:"working_hours"`
	Appointments []AppointmentView `json:"appointments"`
}
