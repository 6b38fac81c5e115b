package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type RequestNotifier interface {
	RequestAccepted(patientName, patientEmail string, psychologistID uint)
}

type RequestHandler struct {
	db          *gorm.DB
	notify      RequestNotifier
	audit       *audit.Dispatcher
	checkDomain func(email string) bool
}

// NewRequestHandler builds the intake handler; checkDomain may be nil.
func NewRequestHandler(
	db *gorm.DB,
	notify RequestNotifier,
	audit *audit.Dispatcher,
	checkDomain func(email string) bool,
) *RequestHandler {
	return &RequestHandler{
		db:          db,
		notify:      notify,
		audit:       audit,
		checkDomain: checkDomain,
	}
}

// ======================================================
// REQUESTS / VIEW
// ======================================================

type CreateIntakeRequest struct {
	PatientName           string   `json:"patient_name" binding:"required"`
	PatientEmail          string   `json:"patient_email" binding:"required"`
	PatientPhone          string   `json:"patient_phone"`
	PreferredPsychologist uint     `json:"preferred_psychologist" binding:"required"`
	Description           string   `json:"description"`
	Urgency               string   `json:"urgency"`
	PreferredDates        []string `json:"preferred_dates"`
	PreferredTimes        []string `json:"preferred_times"`
}

type DecideIntakeRequest struct {
	Notes string `json:"notes"`
}

type requestView struct {
	models.Request
	PreferredDates []string `json:"preferred_dates"`
	PreferredTimes []string `json:"preferred_times"`
}

func viewOf(r models.Request) requestView {
	v := requestView{Request: r, PreferredDates: []string{}, PreferredTimes: []string{}}
	_ = json.Unmarshal([]byte(r.PreferredDates), &v.PreferredDates)
	_ = json.Unmarshal([]byte(r.PreferredTimes), &v.PreferredTimes)
	return v
}

var urgencies = map[string]bool{"low": true, "medium": true, "high": true}

// ======================================================
// PUBLIC
// ======================================================

func (h *RequestHandler) Create(c *gin.Context) {
	var req CreateIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Name, email and psychologist are required.")
		return
	}

	email := validators.NormalizeEmail(req.PatientEmail)
	if !strings.Contains(email, "@") {
		httperr.BadRequest(c, "invalid_email", "Invalid email.")
		return
	}
	if h.checkDomain != nil && !h.checkDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Email domain does not accept mail.")
		return
	}

	urgency := strings.ToLower(req.Urgency)
	if urgency == "" {
		urgency = "medium"
	}
	if !urgencies[urgency] {
		httperr.BadRequest(c, "invalid_urgency", "Urgency must be low, medium or high.")
		return
	}

	for _, d := range req.PreferredDates {
		if !validators.IsDate(d) {
			httperr.BadRequest(c, "invalid_date", "Preferred dates must be YYYY-MM-DD.")
			return
		}
	}
	for _, t := range req.PreferredTimes {
		if !validators.IsClock(t) {
			httperr.BadRequest(c, "invalid_time", "Preferred times must be HH:MM.")
			return
		}
	}

	db := h.db.WithContext(c.Request.Context())

	var psy models.User
	err := db.Where("id = ? AND role = ?", req.PreferredPsychologist, models.RolePsychologist).First(&psy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFoundResponse(c, "psychologist_not_found", "Psychologist not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "request_create_failed", "Could not create request.")
		return
	}

	dates, _ := json.Marshal(nonNil(req.PreferredDates))
	times, _ := json.Marshal(nonNil(req.PreferredTimes))

	r := models.Request{
		PatientName:             strings.TrimSpace(req.PatientName),
		PatientEmail:            email,
		PatientPhone:            req.PatientPhone,
		PreferredPsychologistID: psy.ID,
		Description:             req.Description,
		Urgency:                 urgency,
		PreferredDates:          string(dates),
		PreferredTimes:          string(times),
		Status:                  models.RequestPending,
	}

	if err := db.Create(&r).Error; err != nil {
		httperr.Internal(c, "request_create_failed", "Could not create request.")
		return
	}

	c.JSON(http.StatusOK, viewOf(r))
}

// ======================================================
// PSYCHOLOGIST
// ======================================================

func (h *RequestHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	skip, limit := skipLimit(c, 100, 500)

	q := h.db.WithContext(c.Request.Context()).
		Where("preferred_psychologist_id = ?", user.ID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []models.Request
	if err := q.Order("created_at DESC").Offset(skip).Limit(limit).Find(&rows).Error; err != nil {
		httperr.Internal(c, "request_list_failed", "Could not list requests.")
		return
	}

	out := make([]requestView, 0, len(rows))
	for _, r := range rows {
		out = append(out, viewOf(r))
	}

	c.JSON(http.StatusOK, out)
}

// Accept links the requester to the psychologist, creating the Patient
// record when none exists for that email.
func (h *RequestHandler) Accept(c *gin.Context) {
	h.decide(c, models.RequestAccepted)
}

func (h *RequestHandler) Reject(c *gin.Context) {
	h.decide(c, models.RequestRejected)
}

func (h *RequestHandler) decide(c *gin.Context, next string) {
	user := middleware.CurrentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body DecideIntakeRequest
	_ = c.ShouldBindJSON(&body)

	var r models.Request

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFound("request_not_found", "Request not found.")
			}
			return err
		}

		if r.PreferredPsychologistID != user.ID {
			return httperr.Forbidden("forbidden", "This request was sent to another psychologist.")
		}
		if r.Status != models.RequestPending {
			return httperr.Validation("request_already_processed", "Only pending requests can be decided.")
		}

		if next == models.RequestAccepted {
			patientID, err := linkPatient(tx, r, user.ID)
			if err != nil {
				return err
			}
			r.PatientID = &patientID
		}

		r.Status = next
		if body.Notes != "" {
			r.Notes = body.Notes
		}

		return tx.Omit("PreferredPsychologist").Save(&r).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if next == models.RequestAccepted {
		h.notify.RequestAccepted(r.PatientName, r.PatientEmail, user.ID)
	}
	dispatchAudit(h.audit, c, user.ID, "request_"+next, "request", r.ID)

	c.JSON(http.StatusOK, viewOf(r))
}

func linkPatient(tx *gorm.DB, r models.Request, psychologistID uint) (uint, error) {
	var p models.Patient
	err := tx.Where("email = ?", r.PatientEmail).First(&p).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = models.Patient{
			Name:           r.PatientName,
			Email:          r.PatientEmail,
			Phone:          r.PatientPhone,
			Status:         "active",
			PsychologistID: &psychologistID,
		}
		if err := tx.Create(&p).Error; err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if err := tx.Model(&p).Update("psychologist_id", psychologistID).Error; err != nil {
			return 0, err
		}
	}

	return p.ID, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
