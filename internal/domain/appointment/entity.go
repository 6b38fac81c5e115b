package appointment

import (
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel always moves the appointment to canceled; it is not a transition
// guarded by the current status.
func Cancel(ap *models.Appointment, now time.Time) {
	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// SetStatus applies a status patch and stamps the matching timestamp.
func SetStatus(ap *models.Appointment, next Status, now time.Time) {
	ap.Status = string(next)

	switch next {
	case StatusCanceled:
		ap.CanceledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
}

// OccupiesSlot reports whether ap holds its (psychologist, date, time) slot.
func OccupiesSlot(ap *models.Appointment) bool {
	return Status(ap.Status) == StatusScheduled
}
