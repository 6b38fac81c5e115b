package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/analytics"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type DashboardHandler struct {
	db    *gorm.DB
	clock clock
}

func NewDashboardHandler(db *gorm.DB, tz string) *DashboardHandler {
	return &DashboardHandler{db: db, clock: newClock(tz)}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	if middleware.CurrentUser(c).IsPsychologist() {
		h.psychologistStats(c)
		return
	}
	h.patientStats(c)
}

// ------------------------------------------------------
// Psychologist
// ------------------------------------------------------

func (h *DashboardHandler) psychologistStats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	db := h.db.WithContext(c.Request.Context())
	today, monthStart := h.clock.Today(), h.clock.MonthStart()

	mine := func() *gorm.DB {
		return db.Model(&models.Appointment{}).Where("psychologist_id = ?", user.ID)
	}

	var totalPatients, totalSessions, upcoming, completed, canceled int64

	err := errors.Join(
		psychologistPatients(db, user.ID).Count(&totalPatients).Error,
		mine().Count(&totalSessions).Error,
		mine().Where("status = ? AND date >= ?", string(domain.StatusScheduled), today).Count(&upcoming).Error,
		mine().Where("status = ? AND date >= ?", string(domain.StatusCompleted), monthStart).Count(&completed).Error,
		mine().Where("status = ? AND date >= ?", string(domain.StatusCanceled), monthStart).Count(&canceled).Error,
	)
	if err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not load dashboard.")
		return
	}

	var next []models.Appointment
	if err := mine().
		Preload("Patient").
		Where("status = ? AND date >= ?", string(domain.StatusScheduled), today).
		Order("date ASC, time ASC").
		Limit(5).
		Find(&next).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not load dashboard.")
		return
	}

	var recent []models.Patient
	if err := psychologistPatients(db, user.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not load dashboard.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_patients":       totalPatients,
		"total_sessions":       totalSessions,
		"upcoming_sessions":    upcoming,
		"completed_this_month": completed,
		"canceled_this_month":  canceled,
		"attendance_rate":      analytics.AttendanceRate(int(completed), int(canceled)),
		"next_appointments":    next,
		"recent_patients":      recent,
		"alerts":               []any{},
	})
}

// ------------------------------------------------------
// Patient
// ------------------------------------------------------

func (h *DashboardHandler) patientStats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	db := h.db.WithContext(c.Request.Context())
	today := h.clock.Today()

	var patient models.Patient
	err := db.Preload("Psychologist").Where("email = ?", user.Email).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"total_sessions":     0,
			"completed_sessions": 0,
			"upcoming_sessions":  0,
			"last_session":       nil,
			"next_appointments":  []models.Appointment{},
			"psychologist":       nil,
		})
		return
	}
	if err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not load dashboard.")
		return
	}

	mine := func() *gorm.DB {
		return db.Model(&models.Appointment{}).Where("patient_id = ?", patient.ID)
	}

	var total, completed, upcoming int64
	err = errors.Join(
		mine().Count(&total).Error,
		mine().Where("status = ?", string(domain.StatusCompleted)).Count(&completed).Error,
		mine().Where("status = ? AND date >= ?", string(domain.StatusScheduled), today).Count(&upcoming).Error,
	)
	if err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not load dashboard.")
		return
	}

	var last *string
	var lastRow models.Appointment
	if err := mine().
		Where("status = ?", string(domain.StatusCompleted)).
		Order("date DESC, time DESC").
		Limit(1).
		Find(&lastRow).Error; err == nil && lastRow.ID != 0 {
		last = &lastRow.Date
	}

	var next []models.Appointment
	if err := mine().
		Preload("Psychologist").
		Where("status = ? AND date >= ?", string(domain.StatusScheduled), today).
		Order("date ASC, time ASC").
		Limit(5).
		Find(&next).Error; err != nil {
		httperr.Internal(c, "dashboard_failed", "Could not load dashboard.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_sessions":     total,
		"completed_sessions": completed,
		"upcoming_sessions":  upcoming,
		"last_session":       last,
		"next_appointments":  next,
		"psychologist":       patient.Psychologist,
	})
}
