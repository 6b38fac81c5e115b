package appointment

import (
	"context"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type SendReminder struct {
	repo   domain.Repository
	notify Notifier
	audit  *audit.Dispatcher
}

func NewSendReminder(repo domain.Repository, notify Notifier, audit *audit.Dispatcher) *SendReminder {
	return &SendReminder{repo: repo, notify: notify, audit: audit}
}

func (uc *SendReminder) Execute(ctx context.Context, actor *models.User, id uint, origin audit.Origin) error {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsPsychologist() || ap.PsychologistID != actor.ID {
		return httperr.Forbidden("forbidden", "Only the appointment's psychologist can send reminders.")
	}
	if !domain.OccupiesSlot(ap) {
		return httperr.Validation("invalid_state", "Only scheduled appointments get reminders.")
	}

	uc.notify.AppointmentReminder(*ap)
	uc.audit.Dispatch(origin.Event(actor.ID, "appointment_reminder", "appointment", ap.ID))
	return nil
}
