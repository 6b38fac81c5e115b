package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/export"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type ExportHandler struct {
	db    *gorm.DB
	clock clock
}

func NewExportHandler(db *gorm.DB, tz string) *ExportHandler {
	return &ExportHandler{db: db, clock: newClock(tz)}
}

func (h *ExportHandler) Patients(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := export.CheckFormat(c.Query("format")); err != nil {
		httperr.Respond(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var patients []models.Patient
	if err := psychologistPatients(db, user.ID).Order("name ASC").Find(&patients).Error; err != nil {
		httperr.Internal(c, "export_failed", "Export failed.")
		return
	}

	type sessionCount struct {
		PatientID uint
		Total     int64
	}
	var counts []sessionCount
	if err := db.Model(&models.Appointment{}).
		Select("patient_id, COUNT(*) AS total").
		Where("psychologist_id = ?", user.ID).
		Group("patient_id").
		Scan(&counts).Error; err != nil {
		httperr.Internal(c, "export_failed", "Export failed.")
		return
	}

	totals := make(map[uint]int64, len(counts))
	for _, sc := range counts {
		totals[sc.PatientID] = sc.Total
	}

	rows := make([]export.PatientRow, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, export.PatientRow{
			ID:            p.ID,
			Name:          p.Name,
			Email:         p.Email,
			Status:        p.Status,
			Age:           p.Age,
			TotalSessions: totals[p.ID],
		})
	}

	var buf bytes.Buffer
	if err := export.WritePatients(&buf, rows); err != nil {
		httperr.Internal(c, "export_failed", "Export failed.")
		return
	}

	h.attach(c, "patients", buf.Bytes())
}

func (h *ExportHandler) Appointments(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := export.CheckFormat(c.Query("format")); err != nil {
		httperr.Respond(c, err)
		return
	}

	start, ok := optionalDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := optionalDate(c, "end_date")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("Patient").
		Where("psychologist_id = ?", user.ID)
	if start != "" {
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		q = q.Where("date <= ?", end)
	}

	var items []models.Appointment
	if err := q.Order("date ASC, time ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "export_failed", "Export failed.")
		return
	}

	rows := make([]export.AppointmentRow, 0, len(items))
	for _, ap := range items {
		name := ""
		if ap.Patient != nil {
			name = ap.Patient.Name
		}
		rows = append(rows, export.AppointmentRow{
			ID:       ap.ID,
			Date:     ap.Date,
			Time:     ap.Time,
			Patient:  name,
			Status:   ap.Status,
			Duration: ap.Duration,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteAppointments(&buf, rows); err != nil {
		httperr.Internal(c, "export_failed", "Export failed.")
		return
	}

	h.attach(c, "appointments", buf.Bytes())
}

func (h *ExportHandler) attach(c *gin.Context, name string, body []byte) {
	filename := fmt.Sprintf("%s_%s.csv", name, h.clock.Today())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
