package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// Notifier fans appointment events out to the patient. Calls return
// immediately; delivery happens in the background.
type Notifier interface {
	AppointmentConfirmed(ap models.Appointment)
	AppointmentStatusChanged(ap models.Appointment)
	AppointmentCanceled(ap models.Appointment, reason string)
	AppointmentReminder(ap models.Appointment)
}

// authorize lets the owning psychologist or the appointment's patient act on
// it.
func authorize(
	ctx context.Context,
	repo domain.Repository,
	actor *models.User,
	ap *models.Appointment,
) error {

	if actor.IsPsychologist() {
		if ap.PsychologistID != actor.ID {
			return httperr.Forbidden("forbidden", "You cannot change this appointment.")
		}
		return nil
	}

	p, err := repo.FindPatientByEmail(ctx, actor.Email)
	if err != nil || p.ID != ap.PatientID {
		return httperr.Forbidden("forbidden", "You cannot change this appointment.")
	}
	return nil
}
