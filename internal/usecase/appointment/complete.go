package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// CompleteAppointment closes a scheduled session. Unlike a status patch it
// refuses appointments that are not scheduled anymore.
type CompleteAppointment struct {
	repo   domain.Repository
	notify Notifier
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewCompleteAppointment(
	repo domain.Repository,
	notify Notifier,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
		now:    time.Now,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor *models.User,
	id uint,
	origin audit.Origin,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsPsychologist() || ap.PsychologistID != actor.ID {
		return nil, httperr.Forbidden("forbidden", "Only the appointment's psychologist can complete it.")
	}

	if err := domain.Complete(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.notify.AppointmentStatusChanged(*ap)
	uc.audit.Dispatch(origin.Event(actor.ID, "appointment_completed", "appointment", ap.ID))

	return ap, nil
}
