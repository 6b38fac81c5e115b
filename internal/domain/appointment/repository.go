package appointment

import (
	"context"

	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type ListFilter struct {
	Status    string
	Date      string
	StartDate string
	EndDate   string
	Skip      int
	Limit     int
}

// Repository is the persistence port for the booking use cases. Lookups that
// miss return an httperr NotFound; writes that collide with another
// scheduled appointment return an httperr Conflict.
type Repository interface {
	// -------- People --------
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
	FindPatientByEmail(ctx context.Context, email string) (*models.Patient, error)

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	ListForPsychologist(ctx context.Context, psychologistID uint, f ListFilter) ([]models.Appointment, error)
	ListForPatient(ctx context.Context, patientID uint, f ListFilter) ([]models.Appointment, error)

	SlotTaken(ctx context.Context, psychologistID uint, date, clock string, excludeID uint) (bool, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Availability --------
	ScheduledTimes(ctx context.Context, psychologistID uint, date string) ([]string, error)
}
