package appointment

import (
	"time"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Transition applies the action for target and returns the previous status.
func Transition(ap *models.Appointment, target Status, now time.Time) (Status, error) {
	from := Status(ap.Status)

	var err error
	switch target {
	case StatusConfirmed:
		err = Confirm(ap, now)
	case StatusCancelled:
		err = Cancel(ap, now)
	case StatusCompleted:
		err = Complete(ap, now)
	default:
		err = httperr.ErrBusiness(CodeInvalidState)
	}
	return from, err
}
