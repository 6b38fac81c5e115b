package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/psi-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	list     *ucAppointment.ListAppointments
	get      *ucAppointment.GetAppointment
	create   *ucAppointment.CreateAppointment
	update   *ucAppointment.UpdateAppointment
	cancel   *ucAppointment.CancelAppointment
	complete *ucAppointment.CompleteAppointment
	slots    *ucAppointment.AvailableSlots
	remind   *ucAppointment.SendReminder
}

func NewAppointmentHandler(
	list *ucAppointment.ListAppointments,
	get *ucAppointment.GetAppointment,
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	slots *ucAppointment.AvailableSlots,
	remind *ucAppointment.SendReminder,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:     list,
		get:      get,
		create:   create,
		update:   update,
		cancel:   cancel,
		complete: complete,
		slots:    slots,
		remind:   remind,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PsychologistID uint   `json:"psychologist_id"`
	PatientID      uint   `json:"patient_id"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	Duration       int    `json:"duration"`
	Notes          string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Status      *string `json:"status"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Duration    *int    `json:"duration"`
	Notes       *string `json:"notes"`
	FullReport  *string `json:"full_report"`
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	date, ok := optionalDate(c, "date")
	if !ok {
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

	status := c.Query("status")
	if status != "" {
		if _, err := domain.ParseStatus(status); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	skip, limit := skipLimit(c, 100, 500)

	items, err := h.list.Execute(c.Request.Context(), user, domain.ListFilter{
		Status:    status,
		Date:      date,
		StartDate: start,
		EndDate:   end,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	psychologistID := queryUint(c, "psychologist_id")
	user := middleware.CurrentUser(c)
	if psychologistID == 0 && user.IsPsychologist() {
		psychologistID = user.ID
	}

	slots, err := h.slots.Execute(c.Request.Context(), domain.AvailabilityInput{
		PsychologistID: psychologistID,
		Date:           c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	// bare array of "HH:MM" strings
	c.JSON(http.StatusOK, slots)
}

// ======================================================
// WRITE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Date and time are required.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), middleware.CurrentUser(c), ucAppointment.CreateAppointmentInput{
		PsychologistID: req.PsychologistID,
		PatientID:      req.PatientID,
		Date:           req.Date,
		Time:           req.Time,
		Type:           req.Type,
		Description:    req.Description,
		Duration:       req.Duration,
		Notes:          req.Notes,
		Origin:         originOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), middleware.CurrentUser(c), id, ucAppointment.UpdateAppointmentInput{
		Date:        req.Date,
		Time:        req.Time,
		Status:      req.Status,
		Type:        req.Type,
		Description: req.Description,
		Duration:    req.Duration,
		Notes:       req.Notes,
		FullReport:  req.FullReport,
		Origin:      originOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// Cancel answers DELETE /appointments/:id; the row is kept with status
// canceled.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.CurrentUser(c), id, c.Query("reason"), originOf(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment canceled.",
		"appointment": ap,
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), middleware.CurrentUser(c), id, originOf(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Remind(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remind.Execute(c.Request.Context(), middleware.CurrentUser(c), id, originOf(c)); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder sent."})
}
