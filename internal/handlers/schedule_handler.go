package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

type ScheduleRequest struct {
	DayOfWeek    *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	SlotDuration int    `json:"slot_duration"`
	IsActive     *bool  `json:"is_active"`
}

type UpdateScheduleRequest struct {
	DayOfWeek    *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	SlotDuration *int    `json:"slot_duration"`
	IsActive     *bool   `json:"is_active"`
}

type ScheduleExceptionRequest struct {
	Date string `json:"date" binding:"required"`
}

type scheduleView struct {
	models.Schedule
	Exceptions []string `json:"exceptions"`
}

func scheduleViewOf(s models.Schedule) scheduleView {
	v := scheduleView{Schedule: s, Exceptions: []string{}}
	_ = json.Unmarshal([]byte(s.Exceptions), &v.Exceptions)
	return v
}

func (h *ScheduleHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	psychologistID := queryUint(c, "psychologist_id")
	if psychologistID == 0 {
		if !user.IsPsychologist() {
			httperr.BadRequest(c, "invalid_psychologist", "psychologist_id is required.")
			return
		}
		psychologistID = user.ID
	}

	var rows []models.Schedule
	if err := h.db.WithContext(c.Request.Context()).
		Where("psychologist_id = ?", psychologistID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "schedule_list_failed", "Could not list schedules.")
		return
	}

	out := make([]scheduleView, 0, len(rows))
	for _, s := range rows {
		out = append(out, scheduleViewOf(s))
	}

	c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "day_of_week (0-6), start_time and end_time are required.")
		return
	}

	if !validators.IsTimeRange(req.StartTime, req.EndTime) {
		httperr.BadRequest(c, "invalid_time_range", "start_time must be before end_time (HH:MM).")
		return
	}

	s := models.Schedule{
		PsychologistID: user.ID,
		DayOfWeek:      *req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		SlotDuration:   req.SlotDuration,
		IsActive:       true,
		Exceptions:     "[]",
	}
	if s.SlotDuration <= 0 {
		s.SlotDuration = 50
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&s).Error; err != nil {
		httperr.Internal(c, "schedule_create_failed", "Could not create schedule.")
		return
	}

	c.JSON(http.StatusOK, scheduleViewOf(s))
}

func (h *ScheduleHandler) own(c *gin.Context) (*models.Schedule, bool) {
	user := middleware.CurrentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var s models.Schedule
	err := h.db.WithContext(c.Request.Context()).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFoundResponse(c, "schedule_not_found", "Schedule not found.")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "schedule_load_failed", "Could not load schedule.")
		return nil, false
	}
	if s.PsychologistID != user.ID {
		httperr.ForbiddenResponse(c, "forbidden", "This schedule belongs to another psychologist.")
		return nil, false
	}

	return &s, true
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	s, ok := h.own(c)
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.DayOfWeek != nil {
		s.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		s.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		s.EndTime = *req.EndTime
	}
	if req.SlotDuration != nil && *req.SlotDuration > 0 {
		s.SlotDuration = *req.SlotDuration
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}

	if !validators.IsTimeRange(s.StartTime, s.EndTime) {
		httperr.BadRequest(c, "invalid_time_range", "start_time must be before end_time (HH:MM).")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(s).Error; err != nil {
		httperr.Internal(c, "schedule_update_failed", "Could not update schedule.")
		return
	}

	c.JSON(http.StatusOK, scheduleViewOf(*s))
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	s, ok := h.own(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&models.Schedule{}, s.ID).Error; err != nil {
		httperr.Internal(c, "schedule_delete_failed", "Could not delete schedule.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted."})
}

// AddException appends a blocked date. Duplicates are kept and existing
// appointments on that date are left alone. The row is locked so concurrent
// appends do not overwrite each other.
func (h *ScheduleHandler) AddException(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ScheduleExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validators.IsDate(req.Date) {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	var s models.Schedule

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFound("schedule_not_found", "Schedule not found.")
			}
			return err
		}
		if s.PsychologistID != user.ID {
			return httperr.Forbidden("forbidden", "This schedule belongs to another psychologist.")
		}

		dates := []string{}
		if s.Exceptions != "" {
			if err := json.Unmarshal([]byte(s.Exceptions), &dates); err != nil {
				return fmt.Errorf("decode exceptions of schedule %d: %w", s.ID, err)
			}
		}
		dates = append(dates, req.Date)

		raw, err := json.Marshal(dates)
		if err != nil {
			return err
		}
		s.Exceptions = string(raw)

		return tx.Model(&s).Update("exceptions", s.Exceptions).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, scheduleViewOf(s))
}
