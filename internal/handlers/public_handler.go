package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
	"github.com/BruksfildServices01/barberbook/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	services     *appointment.ListBarberServices
	availability *appointment.GetAvailability
	watch        *appointment.WatchAvailability
	clock        timezone.Clock
	log          *zap.Logger
	heartbeat    time.Duration
}

func NewPublicHandler(
	services *appointment.ListBarberServices,
	availability *appointment.GetAvailability,
	watch *appointment.WatchAvailability,
	clock timezone.Clock,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		services:     services,
		availability: availability,
		watch:        watch,
		clock:        clock,
		log:          log.Named("public"),
		heartbeat:    streamHeartbeat,
	}
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	barberID, ok := paramID(c, "barberID")
	if !ok {
		return
	}

	services, err := h.services.Execute(c.Request.Context(), barberID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, services)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// GET /availability?date=YYYY-MM-DD&service_ids=1,2
func (h *PublicHandler) Availability(c *gin.Context) {
	in, ok := h.availabilityInput(c)
	if !ok {
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

// AvailabilityStream sends the day's slots, then a fresh list after every
// change to the barber's appointments.
func (h *PublicHandler) AvailabilityStream(c *gin.Context) {
	in, ok := h.availabilityInput(c)
	if !ok {
		return
	}

	updates := h.watch.Execute(c.Request.Context(), in)

	stream(c, h.heartbeat, func(ctx context.Context) (string, any, bool) {
		select {
		case u, ok := <-updates:
			if !ok {
				return "", nil, false
			}
			if u.Err != nil {
				return "error", httperr.HTTPError{
					Code:      "storage_unavailable",
					Message:   "Temporarily unavailable. Try again.",
					Retryable: true,
				}, true
			}
			return "availability", u.Result, true
		case <-ctx.Done():
			return "", nil, false
		}
	})
}

func (h *PublicHandler) availabilityInput(c *gin.Context) (domain.AvailabilityInput, bool) {
	barberID, ok := paramID(c, "barberID")
	if !ok {
		return domain.AvailabilityInput{}, false
	}

	date, err := h.clock.ParseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, domain.CodeInvalidDateOrTime, "Invalid date.")
		return domain.AvailabilityInput{}, false
	}

	ids, err := parseIDs(c.Query("service_ids"))
	if err != nil {
		httperr.BadRequest(c, "invalid_service_ids", "Invalid service_ids.")
		return domain.AvailabilityInput{}, false
	}

	items, err := h.services.Resolve(c.Request.Context(), barberID, ids)
	if err != nil {
		writeError(c, h.log, err)
		return domain.AvailabilityInput{}, false
	}

	return domain.AvailabilityInput{BarberID: barberID, Date: date, Services: items}, true
}

////////////////////////////////////////////////////////
// HEALTH
////////////////////////////////////////////////////////

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	c.JSON(status, gin.H{"ready": status == http.StatusOK, "checks": results})
}
