package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/search"
	"github.com/BruksfildServices01/psi-scheduler/internal/timezone"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type PatientHandler struct {
	db    *gorm.DB
	clock clock
}

func NewPatientHandler(db *gorm.DB, tz string) *PatientHandler {
	return &PatientHandler{db: db, clock: newClock(tz)}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePatientRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
	Status    string `json:"status"`
}

type UpdatePatientRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"`
	Status    *string `json:"status"`
}

// ======================================================
// SCOPE
// ======================================================

// psychologistPatients selects the patients linked to the psychologist or
// holding at least one appointment with them.
func psychologistPatients(db *gorm.DB, psychologistID uint) *gorm.DB {
	return db.Model(&models.Patient{}).Where(
		"psychologist_id = ? OR id IN (?)",
		psychologistID,
		db.Model(&models.Appointment{}).Select("patient_id").Where("psychologist_id = ?", psychologistID),
	)
}

func (h *PatientHandler) load(c *gin.Context, id uint) (*models.Patient, bool) {
	user := middleware.CurrentUser(c)
	db := h.db.WithContext(c.Request.Context())

	var p models.Patient
	err := db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFoundResponse(c, "patient_not_found", "Patient not found.")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "patient_load_failed", "Could not load patient.")
		return nil, false
	}

	if user.IsPatient() {
		if !strings.EqualFold(p.Email, user.Email) {
			httperr.ForbiddenResponse(c, "forbidden", "You can only access your own record.")
			return nil, false
		}
		return &p, true
	}

	var n int64
	if err := psychologistPatients(db, user.ID).Where("id = ?", p.ID).Count(&n).Error; err != nil {
		httperr.Internal(c, "patient_load_failed", "Could not load patient.")
		return nil, false
	}
	if n == 0 {
		httperr.ForbiddenResponse(c, "forbidden", "This patient is not under your care.")
		return nil, false
	}

	return &p, true
}

func (h *PatientHandler) parseBirth(c *gin.Context, raw string) (*time.Time, int, bool) {
	if raw == "" {
		return nil, 0, true
	}
	t, err := time.Parse(timezone.DateLayout, raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_birth_date", "Birth date must be YYYY-MM-DD.")
		return nil, 0, false
	}
	return &t, timezone.Age(t, h.clock.Now()), true
}

// ======================================================
// ENDPOINTS
// ======================================================

func (h *PatientHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	db := h.db.WithContext(c.Request.Context())

	var patients []models.Patient

	if user.IsPatient() {
		if err := db.Where("email = ?", user.Email).Find(&patients).Error; err != nil {
			httperr.Internal(c, "patient_list_failed", "Could not list patients.")
			return
		}
		c.JSON(http.StatusOK, patients)
		return
	}

	skip, limit := skipLimit(c, 100, 500)

	q := psychologistPatients(db, user.ID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Order("name ASC").Find(&patients).Error; err != nil {
		httperr.Internal(c, "patient_list_failed", "Could not list patients.")
		return
	}

	// accent-insensitive filter runs in memory
	if query := c.Query("q"); query != "" {
		filtered := patients[:0]
		for _, p := range patients {
			if search.Matches(query, p.Name, p.Email, p.Phone) {
				filtered = append(filtered, p)
			}
		}
		patients = filtered
	}

	c.JSON(http.StatusOK, httpresp.Page(patients, skip, limit))
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, ok := h.load(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PatientHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Name and email are required.")
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		httperr.BadRequest(c, "invalid_email", "Invalid email.")
		return
	}

	birth, age, ok := h.parseBirth(c, req.BirthDate)
	if !ok {
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	p := models.Patient{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Phone:          req.Phone,
		BirthDate:      birth,
		Age:            age,
		Status:         status,
		PsychologistID: &user.ID,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		httperr.Internal(c, "patient_create_failed", "Could not create patient.")
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, ok := h.load(c, id)
	if !ok {
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.BirthDate != nil {
		birth, age, ok := h.parseBirth(c, *req.BirthDate)
		if !ok {
			return
		}
		p.BirthDate, p.Age = birth, age
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Psychologist").Save(p).Error; err != nil {
		httperr.Internal(c, "patient_update_failed", "Could not update patient.")
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, ok := h.load(c, id)
	if !ok {
		return
	}

	// scheduled sessions are canceled first so their slots are released
	now := h.clock.Now()
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Appointment{}).
			Where("patient_id = ? AND status = ?", p.ID, string(domain.StatusScheduled)).
			Updates(map[string]any{
				"status":      string(domain.StatusCanceled),
				"canceled_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Patient{}, p.ID).Error
	})
	if err != nil {
		httperr.Internal(c, "patient_delete_failed", "Could not delete patient.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted."})
}
