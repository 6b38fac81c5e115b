package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

// UpdateAppointmentInput is a partial patch; nil fields are left unchanged.
type UpdateAppointmentInput struct {
	Date        *string
	Time        *string
	Status      *string
	Type        *string
	Description *string
	Duration    *int
	Notes       *string
	FullReport  *string

	Origin audit.Origin
}

type UpdateAppointment struct {
	repo   domain.Repository
	notify Notifier
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	notify Notifier,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
		now:    time.Now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	actor *models.User,
	id uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, uc.repo, actor, ap); err != nil {
		return nil, err
	}

	oldStatus := ap.Status
	oldDate, oldTime := ap.Date, ap.Time

	// --------------------------------------------------
	// Patch
	// --------------------------------------------------
	if in.Date != nil {
		if !validators.IsDate(*in.Date) {
			return nil, httperr.Validation("invalid_date_or_time", "Date must be YYYY-MM-DD.")
		}
		ap.Date = *in.Date
	}
	if in.Time != nil {
		if !validators.IsClock(*in.Time) {
			return nil, httperr.Validation("invalid_date_or_time", "Time must be HH:MM.")
		}
		ap.Time = *in.Time
	}
	if in.Status != nil {
		next, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if string(next) != oldStatus {
			domain.SetStatus(ap, next, uc.now())
		}
	}
	if in.Type != nil {
		ap.Type = *in.Type
	}
	if in.Description != nil {
		ap.Description = *in.Description
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return nil, httperr.Validation("invalid_duration", "Duration must be positive.")
		}
		ap.Duration = *in.Duration
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}
	if in.FullReport != nil {
		ap.FullReport = *in.FullReport
	}

	// --------------------------------------------------
	// Slot still free?
	// --------------------------------------------------
	moved := ap.Date != oldDate || ap.Time != oldTime
	reactivated := ap.Status != oldStatus
	if domain.OccupiesSlot(ap) && (moved || reactivated) {
		taken, err := uc.repo.SlotTaken(ctx, ap.PsychologistID, ap.Date, ap.Time, ap.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, httperr.Conflict("slot_unavailable", "Time slot is not available.")
		}
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if ap.Status != oldStatus {
		uc.notify.AppointmentStatusChanged(*ap)
	}
	uc.audit.Dispatch(in.Origin.Event(actor.ID, "appointment_updated", "appointment", ap.ID))

	return ap, nil
}
