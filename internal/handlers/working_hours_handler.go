package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	list   *appointment.ListWorkingHours
	update *appointment.UpdateWorkingHours
	log    *zap.Logger
}

func NewWorkingHoursHandler(
	list *appointment.ListWorkingHours,
	update *appointment.UpdateWorkingHours,
	log *zap.Logger,
) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		list:   list,
		update: update,
		log:    log.Named("working_hours"),
	}
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	week, err := h.list.Execute(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, week)
}

type WorkingDayRequest struct {
	Weekday   *int   `json:"weekday" binding:"required,min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

type UpdateWorkingHoursRequest struct {
	Days []WorkingDayRequest `json:"days" binding:"required,min=1,max=7,dive"`
}

func (h *WorkingHoursHandler) Put(c *gin.Context) {
	var req UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	days := make([]appointment.WorkingDayInput, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, appointment.WorkingDayInput{
			Weekday:   *d.Weekday,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}

	week, err := h.update.Execute(c.Request.Context(), middleware.SessionFrom(c), days)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, week)
}
