package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type CancelAppointment struct {
	repo   domain.Repository
	notify Notifier
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	notify Notifier,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
		now:    time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor *models.User,
	id uint,
	reason string,
	origin audit.Origin,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, uc.repo, actor, ap); err != nil {
		return nil, err
	}

	domain.Cancel(ap, uc.now())

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.notify.AppointmentCanceled(*ap, reason)
	uc.audit.Dispatch(origin.Event(actor.ID, "appointment_canceled", "appointment", ap.ID))

	return ap, nil
}
