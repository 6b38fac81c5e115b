package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

type AvailableSlots struct {
	repo domain.Repository
}

func NewAvailableSlots(repo domain.Repository) *AvailableSlots {
	return &AvailableSlots{repo: repo}
}

func (uc *AvailableSlots) Execute(ctx context.Context, in domain.AvailabilityInput) ([]string, error) {
	if !validators.IsDate(in.Date) {
		return nil, httperr.Validation("invalid_date", "Date must be YYYY-MM-DD.")
	}
	if in.PsychologistID == 0 {
		return nil, httperr.Validation("invalid_psychologist", "psychologist_id is required.")
	}

	occupied, err := uc.repo.ScheduledTimes(ctx, in.PsychologistID, in.Date)
	if err != nil {
		return nil, err
	}

	return domain.AvailableSlots(domain.DefaultSlots, occupied), nil
}
