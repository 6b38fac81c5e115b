package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/analytics"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

type AnalyticsHandler struct {
	db    *gorm.DB
	clock clock
}

func NewAnalyticsHandler(db *gorm.DB, tz string) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, clock: newClock(tz)}
}

type CreateReportRequest struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	PatientID *uint  `json:"patient_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type reportView struct {
	models.Report
	Data json.RawMessage `json:"data"`
}

var reportTypes = map[string]bool{
	models.ReportIndividual:  true,
	models.ReportGeneral:     true,
	models.ReportStatistical: true,
}

// sessions loads date/status pairs of the psychologist's appointments inside
// the optional window.
func (h *AnalyticsHandler) sessions(db *gorm.DB, psychologistID uint, patientID *uint, start, end string) ([]analytics.Session, error) {
	q := db.Model(&models.Appointment{}).
		Select("date, status").
		Where("psychologist_id = ?", psychologistID)

	if patientID != nil {
		q = q.Where("patient_id = ?", *patientID)
	}
	if start != "" {
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		q = q.Where("date <= ?", end)
	}

	var out []analytics.Session
	err := q.Find(&out).Error
	return out, err
}

func (h *AnalyticsHandler) overview(db *gorm.DB, psychologistID uint, patientID *uint, start, end string) (analytics.Overview, error) {
	sessions, err := h.sessions(db, psychologistID, patientID, start, end)
	if err != nil {
		return analytics.Overview{}, err
	}

	var patients int64
	if patientID != nil {
		patients = 1
	} else if err := psychologistPatients(db, psychologistID).Count(&patients).Error; err != nil {
		return analytics.Overview{}, err
	}

	return analytics.BuildOverview(sessions, int(patients)), nil
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	user := middleware.CurrentUser(c)

	start, ok := optionalDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := optionalDate(c, "end_date")
	if !ok {
		return
	}

	ov, err := h.overview(h.db.WithContext(c.Request.Context()), user.ID, nil, start, end)
	if err != nil {
		httperr.Internal(c, "analytics_failed", "Could not compute analytics.")
		return
	}

	c.JSON(http.StatusOK, ov)
}

// Trends answers ?period=month|week&periods=N (2..24, default 6).
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	user := middleware.CurrentUser(c)

	period := c.DefaultQuery("period", analytics.PeriodMonth)
	if period != analytics.PeriodMonth && period != analytics.PeriodWeek {
		httperr.BadRequest(c, "invalid_period", "period must be month or week.")
		return
	}

	n, err := strconv.Atoi(c.DefaultQuery("periods", "6"))
	if err != nil || n < 2 || n > 24 {
		n = 6
	}

	sessions, err := h.sessions(h.db.WithContext(c.Request.Context()), user.ID, nil, "", "")
	if err != nil {
		httperr.Internal(c, "analytics_failed", "Could not compute analytics.")
		return
	}

	c.JSON(http.StatusOK, analytics.BuildTrend(sessions, period, n, h.clock.Now()))
}

func (h *AnalyticsHandler) CreateReport(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Type == "" {
		req.Type = models.ReportGeneral
	}
	if !reportTypes[req.Type] {
		httperr.BadRequest(c, "invalid_report_type", "type must be individual, general or statistical.")
		return
	}
	if (req.StartDate != "" && !validators.IsDate(req.StartDate)) || (req.EndDate != "" && !validators.IsDate(req.EndDate)) {
		httperr.BadRequest(c, "invalid_date", "Dates must be YYYY-MM-DD.")
		return
	}
	if req.Type == models.ReportIndividual && req.PatientID == nil {
		httperr.BadRequest(c, "patient_required", "Individual reports need a patient_id.")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	ov, err := h.overview(db, user.ID, req.PatientID, req.StartDate, req.EndDate)
	if err != nil {
		httperr.Internal(c, "report_failed", "Could not build report.")
		return
	}

	data, err := json.Marshal(ov)
	if err != nil {
		httperr.Internal(c, "report_failed", "Could not build report.")
		return
	}

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("%s report %s", req.Type, h.clock.Today())
	}

	r := models.Report{
		PsychologistID: user.ID,
		PatientID:      req.PatientID,
		Type:           req.Type,
		Title:          title,
		Content: fmt.Sprintf(
			"%d sessions, %d patients, %.2f sessions per patient.",
			ov.TotalSessions, ov.TotalPatients, ov.AverageSessionsPerPatient,
		),
		Data:      string(data),
		StartDate: nilIfEmpty(req.StartDate),
		EndDate:   nilIfEmpty(req.EndDate),
	}

	if err := db.Create(&r).Error; err != nil {
		httperr.Internal(c, "report_failed", "Could not store report.")
		return
	}

	c.JSON(http.StatusOK, reportView{Report: r, Data: data})
}

func (h *AnalyticsHandler) ListReports(c *gin.Context) {
	user := middleware.CurrentUser(c)
	skip, limit := skipLimit(c, 50, 200)

	var rows []models.Report
	if err := h.db.WithContext(c.Request.Context()).
		Where("psychologist_id = ?", user.ID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "report_list_failed", "Could not list reports.")
		return
	}

	out := make([]reportView, 0, len(rows))
	for _, r := range rows {
		data := json.RawMessage(r.Data)
		if !json.Valid(data) {
			data = json.RawMessage("{}")
		}
		out = append(out, reportView{Report: r, Data: data})
	}

	c.JSON(http.StatusOK, out)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
