package appointment

import (
	"context"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

const defaultDuration = 50

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PsychologistID uint
	PatientID      uint

	Date string
	Time string

	Type        string
	Description string
	Duration    int
	Notes       string

	Origin audit.Origin
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	notify Notifier
	audit  *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	notify Notifier,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor *models.User,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	if !validators.IsDate(in.Date) || !validators.IsClock(in.Time) {
		return nil, httperr.Validation("invalid_date_or_time", "Date must be YYYY-MM-DD and time HH:MM.")
	}
	if in.Duration < 0 {
		return nil, httperr.Validation("invalid_duration", "Duration must be positive.")
	}

	// --------------------------------------------------
	// Who books for whom
	// --------------------------------------------------
	if actor.IsPsychologist() {
		if in.PsychologistID == 0 {
			in.PsychologistID = actor.ID
		}
		if in.PsychologistID != actor.ID {
			return nil, httperr.Forbidden("forbidden", "Psychologists can only book their own agenda.")
		}
	} else {
		own, err := uc.repo.FindPatientByEmail(ctx, actor.Email)
		if err != nil {
			return nil, httperr.Forbidden("patient_profile_missing", "No patient profile linked to this account.")
		}
		if in.PatientID == 0 {
			in.PatientID = own.ID
		}
		if in.PatientID != own.ID {
			return nil, httperr.Forbidden("forbidden", "Patients can only book for themselves.")
		}
	}

	psychologist, err := uc.repo.GetUser(ctx, in.PsychologistID)
	if err != nil {
		return nil, err
	}
	if !psychologist.IsPsychologist() {
		return nil, httperr.Validation("invalid_psychologist", "The selected user is not a psychologist.")
	}

	patient, err := uc.repo.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Slot
	// --------------------------------------------------
	taken, err := uc.repo.SlotTaken(ctx, in.PsychologistID, in.Date, in.Time, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.Conflict("slot_unavailable", "Time slot is not available.")
	}

	// --------------------------------------------------
	// Persist
	// --------------------------------------------------
	ap := &models.Appointment{
		PatientID:      patient.ID,
		PsychologistID: in.PsychologistID,
		Date:           in.Date,
		Time:           in.Time,
		Status:         string(domain.InitialStatus()),
		Type:           orDefault(in.Type, "regular"),
		Description:    in.Description,
		Duration:       in.Duration,
		Notes:          in.Notes,
	}
	if ap.Duration == 0 {
		ap.Duration = defaultDuration
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}
	ap.Patient = patient

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	uc.notify.AppointmentConfirmed(*ap)
	uc.audit.Dispatch(in.Origin.Event(actor.ID, "appointment_created", "appointment", ap.ID))

	return ap, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
