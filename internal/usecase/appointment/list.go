package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute returns the psychologist's agenda, or for a patient account the
// appointments of the Patient record sharing its email.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	actor *models.User,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	if actor.IsPsychologist() {
		return uc.repo.ListForPsychologist(ctx, actor.ID, f)
	}

	patient, err := uc.repo.FindPatientByEmail(ctx, actor.Email)
	if err != nil {
		if kind, ok := httperr.KindOf(err); ok && kind == httperr.KindNotFound {
			return []models.Appointment{}, nil
		}
		return nil, err
	}

	return uc.repo.ListForPatient(ctx, patient.ID, f)
}

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(ctx context.Context, actor *models.User, id uint) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, uc.repo, actor, ap); err != nil {
		return nil, err
	}
	return ap, nil
}
