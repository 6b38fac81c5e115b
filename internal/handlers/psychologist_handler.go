package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/search"
)

// PsychologistHandler serves the public directory. Self updates go through
// MeHandler.
type PsychologistHandler struct {
	db *gorm.DB
}

func NewPsychologistHandler(db *gorm.DB) *PsychologistHandler {
	return &PsychologistHandler{db: db}
}

func (h *PsychologistHandler) List(c *gin.Context) {
	skip, limit := skipLimit(c, 50, 200)

	q := h.db.WithContext(c.Request.Context()).
		Where("role = ? AND status = ?", models.RolePsychologist, "active")

	if specialty := c.Query("specialty"); specialty != "" {
		q = q.Where("specialty ILIKE ?", search.LikePattern(specialty))
	}

	var users []models.User
	if err := q.Order("name ASC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		httperr.Internal(c, "psychologist_list_failed", "Could not list psychologists.")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *PsychologistHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var u models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND role = ?", id, models.RolePsychologist).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFoundResponse(c, "psychologist_not_found", "Psychologist not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "psychologist_load_failed", "Could not load psychologist.")
		return
	}

	c.JSON(http.StatusOK, u)
}
