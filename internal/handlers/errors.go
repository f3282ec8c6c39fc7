package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
)

var messages = map[string]string{
	domain.CodeSlotTaken:           "This time was just booked. Pick another slot.",
	domain.CodeInvalidState:        "The appointment cannot change to that status.",
	domain.CodeAppointmentNotFound: "Appointment not found.",
	domain.CodeBarberNotFound:      "Barber not found.",
	domain.CodeServiceNotFound:     "Service not found.",
	domain.CodeNoServicesSelected:  "Select at least one service.",
	domain.CodeInvalidDateOrTime:   "Invalid date or time.",
	domain.CodeOutsideWorkingHours: "Outside working hours.",
	domain.CodeSlotInPast:          "That time has already passed.",
	domain.CodeForbidden:           "Not allowed.",
	domain.CodeInvalidClient:       "Client name and phone are required.",
	domain.CodeInvalidWorkingHours: "Invalid working hours.",
}

// writeError maps use case errors to HTTP responses.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	_ = c.Error(err)

	if errors.Is(err, domain.ErrStorageUnavailable) {
		log.Warn("storage unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		httperr.Unavailable(c, "storage_unavailable", "Temporarily unavailable. Try again.")
		return
	}

	code := httperr.BusinessCode(err)
	msg := messages[code]

	switch code {
	case "":
		log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		httperr.Internal(c, "internal_error", "Unexpected error.")
	case domain.CodeSlotTaken, domain.CodeInvalidState:
		httperr.Conflict(c, code, msg)
	case domain.CodeAppointmentNotFound, domain.CodeBarberNotFound:
		httperr.NotFound(c, code, msg)
	case domain.CodeForbidden:
		httperr.Forbidden(c, code, msg)
	default:
		httperr.BadRequest(c, code, msg)
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional id; absent means zero.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

// parseIDs reads "1,2,3".
func parseIDs(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
