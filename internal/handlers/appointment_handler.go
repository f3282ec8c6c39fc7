package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/session"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
	"github.com/BruksfildServices01/barberbook/internal/usecase/appointment"
)

// AppointmentHandler serves the staff calendar.
type AppointmentHandler struct {
	byDate       *appointment.ListAppointmentsByDate
	byMonth      *appointment.ListAppointmentsByMonth
	watch        *appointment.WatchCalendar
	services     *appointment.ListBarberServices
	availability *appointment.GetAvailability
	manual       *appointment.CreateManualAppointment
	confirm      *appointment.ConfirmAppointment
	cancel       *appointment.CancelAppointment
	complete     *appointment.CompleteAppointment

	clock     timezone.Clock
	log       *zap.Logger
	heartbeat time.Duration
}

type AppointmentUseCases struct {
	ByDate       *appointment.ListAppointmentsByDate
	ByMonth      *appointment.ListAppointmentsByMonth
	Watch        *appointment.WatchCalendar
	Services     *appointment.ListBarberServices
	Availability *appointment.GetAvailability
	Manual       *appointment.CreateManualAppointment
	Confirm      *appointment.ConfirmAppointment
	Cancel       *appointment.CancelAppointment
	Complete     *appointment.CompleteAppointment
}

func NewAppointmentHandler(uc AppointmentUseCases, clock timezone.Clock, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		byDate:       uc.ByDate,
		byMonth:      uc.ByMonth,
		watch:        uc.Watch,
		services:     uc.Services,
		availability: uc.Availability,
		manual:       uc.Manual,
		confirm:      uc.Confirm,
		cancel:       uc.Cancel,
		complete:     uc.Complete,
		clock:        clock,
		log:          log.Named("appointments"),
		heartbeat:    streamHeartbeat,
	}
}

////////////////////////////////////////////////////////
// LIST
////////////////////////////////////////////////////////

// GET /api/me/appointments?date=YYYY-MM-DD or ?month=YYYY-MM
func (h *AppointmentHandler) List(c *gin.Context) {
	barberID, ok := queryID(c, "barber_id")
	if !ok {
		return
	}
	sess := middleware.SessionFrom(c)

	if month := strings.TrimSpace(c.Query("month")); month != "" {
		views, err := h.byMonth.Execute(c.Request.Context(), sess, barberID, month)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		httpresp.List(c, views)
		return
	}

	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = h.clock.Today().Format(timezone.DateLayout)
	}

	day, err := h.byDate.Execute(c.Request.Context(), sess, barberID, date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, day)
}

// Stream sends a "changed" event whenever the calendar moves. Clients
// reload the affected day.
func (h *AppointmentHandler) Stream(c *gin.Context) {
	barberID, ok := queryID(c, "barber_id")
	if !ok {
		return
	}

	events, unsubscribe, err := h.watch.Execute(c.Request.Context(), middleware.SessionFrom(c), barberID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	defer unsubscribe()

	stream(c, h.heartbeat, func(ctx context.Context) (string, any, bool) {
		select {
		case ev, ok := <-events:
			if !ok {
				return "", nil, false
			}
			return "changed", ev, true
		case <-ctx.Done():
			return "", nil, false
		}
	})
}

////////////////////////////////////////////////////////
// MANUAL BOOKING
////////////////////////////////////////////////////////

// GET /api/me/availability?date=YYYY-MM-DD&service_id=1
// Without service_id the slot list is empty.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	serviceID, ok := queryID(c, "service_id")
	if !ok {
		return
	}
	date, err := h.clock.ParseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, domain.CodeInvalidDateOrTime, "Invalid date.")
		return
	}

	barberID := middleware.SessionFrom(c).UserID

	var ids []uint
	if serviceID != 0 {
		ids = []uint{serviceID}
	}

	items, err := h.services.Resolve(c.Request.Context(), barberID, ids)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID: barberID,
		Date:     date,
		Services: items,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

type CreateManualAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required,max=120"`
	ClientPhone string `json:"client_phone" binding:"required,max=40"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes" binding:"max=400"`
}

func (h *AppointmentHandler) CreateManual(c *gin.Context) {
	var req CreateManualAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	view, err := h.manual.Execute(c.Request.Context(), middleware.SessionFrom(c), appointment.ManualBookingInput{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, view)
}

////////////////////////////////////////////////////////
// STATUS
////////////////////////////////////////////////////////

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.confirm.Execute)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cancel.Execute)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete.Execute)
}

type statusChange func(ctx context.Context, sess session.Session, id uint) (*dto.AppointmentView, error)

func (h *AppointmentHandler) transition(c *gin.Context, change statusChange) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := change(c.Request.Context(), middleware.SessionFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, view)
}
