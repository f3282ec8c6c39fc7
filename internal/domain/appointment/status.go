package appointment

import "github.com/BruksfildServices01/barberbook/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// BlocksSlots is false only for cancelled appointments. Unknown statuses
// block.
func (s Status) BlocksSlots() bool {
	return s != StatusCancelled
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusBooked && current != StatusConfirmed {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusBooked && current != StatusConfirmed {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
