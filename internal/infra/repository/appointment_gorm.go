package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func slotConflict() error {
	return httperr.Conflict("slot_unavailable", "Time slot is not available.")
}

// --------------------------------------------------
// People
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user_not_found", "User not found.")
	}
	return &u, nil
}

func (r *AppointmentGormRepository) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "patient_not_found", "Patient not found.")
	}
	return &p, nil
}

func (r *AppointmentGormRepository) FindPatientByEmail(ctx context.Context, email string) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id ASC").
		First(&p).Error; err != nil {
		return nil, notFound(err, "patient_not_found", "Patient profile not found.")
	}
	return &p, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found", "Appointment not found.")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListForPsychologist(
	ctx context.Context,
	psychologistID uint,
	f domain.ListFilter,
) ([]models.Appointment, error) {
	return r.list(ctx, r.db.Where("psychologist_id = ?", psychologistID), f)
}

func (r *AppointmentGormRepository) ListForPatient(
	ctx context.Context,
	patientID uint,
	f domain.ListFilter,
) ([]models.Appointment, error) {
	return r.list(ctx, r.db.Where("patient_id = ?", patientID), f)
}

func (r *AppointmentGormRepository) list(
	ctx context.Context,
	q *gorm.DB,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q = q.WithContext(ctx).Preload("Patient")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.StartDate != "" {
		q = q.Where("date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("date <= ?", f.EndDate)
	}
	if f.Skip > 0 {
		q = q.Offset(f.Skip)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var apps []models.Appointment
	if err := q.Order("date ASC, time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) SlotTaken(
	ctx context.Context,
	psychologistID uint,
	date string,
	clock string,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"psychologist_id = ? AND date = ? AND time = ? AND status = ?",
			psychologistID, date, clock, string(domain.StatusScheduled),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAppointment relies on ux_appointments_scheduled_slot; a concurrent
// booking that passed the pre-check surfaces here as a unique violation.
func (r *AppointmentGormRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return slotConflict()
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	patient := ap.Patient
	ap.Patient = nil
	defer func() { ap.Patient = patient }()

	if err := r.db.WithContext(ctx).Omit("Patient", "Psychologist").Save(ap).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return slotConflict()
		}
		return err
	}
	return nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ScheduledTimes(
	ctx context.Context,
	psychologistID uint,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"psychologist_id = ? AND date = ? AND status = ?",
			psychologistID, date, string(domain.StatusScheduled),
		).
		Pluck("time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
