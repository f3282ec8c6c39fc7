package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/usecase/appointment"
)

// ClientHandler serves the booking flow of a signed-in client.
type ClientHandler struct {
	book   *appointment.BookAppointment
	list   *appointment.ListClientAppointments
	cancel *appointment.CancelAppointment
	log    *zap.Logger
}

func NewClientHandler(
	book *appointment.BookAppointment,
	list *appointment.ListClientAppointments,
	cancel *appointment.CancelAppointment,
	log *zap.Logger,
) *ClientHandler {
	return &ClientHandler{
		book:   book,
		list:   list,
		cancel: cancel,
		log:    log.Named("client"),
	}
}

type BookAppointmentRequest struct {
	BarberID   uint   `json:"barber_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string `json:"time" binding:"required"` // HH:MM
	ServiceIDs []uint `json:"service_ids" binding:"required,min=1,dive,required"`
	Notes      string `json:"notes" binding:"max=400"`
}

func (h *ClientHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	view, err := h.book.Execute(c.Request.Context(), middleware.SessionFrom(c), appointment.BookInput{
		BarberID:   req.BarberID,
		Date:       req.Date,
		Time:       req.Time,
		ServiceIDs: req.ServiceIDs,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, view)
}

func (h *ClientHandler) List(c *gin.Context) {
	views, err := h.list.Execute(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, views)
}

func (h *ClientHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := h.cancel.Execute(c.Request.Context(), middleware.SessionFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, view)
}
