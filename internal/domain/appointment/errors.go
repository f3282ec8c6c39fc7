package appointment

import (
	"errors"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
)

const (
	CodeSlotTaken           = "slot_taken"
	CodeInvalidState        = "invalid_state"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeBarberNotFound      = "barber_not_found"
	CodeServiceNotFound     = "service_not_found"
	CodeNoServicesSelected  = "no_services_selected"
	CodeInvalidDateOrTime   = "invalid_date_or_time"
	CodeOutsideWorkingHours = "outside_working_hours"
	CodeSlotInPast          = "slot_in_past"
	CodeForbidden           = "forbidden"
	CodeInvalidClient       = "invalid_client"
	CodeInvalidWorkingHours = "invalid_working_hours"
)

var (
	// ErrSlotTaken is returned when the requested range overlaps a booking
	// that was committed after the caller computed its slot list.
	ErrSlotTaken = httperr.ErrBusiness(CodeSlotTaken)

	ErrNotFound = errors.New("record not found")

	// ErrStaleStatus means the row no longer had the expected status when
	// the update ran.
	ErrStaleStatus = errors.New("appointment status changed concurrently")

	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StorageError marks err as a transient storage failure.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storageError{op: op, err: err}
}

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.err}
}
