package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/search"
)

const searchLimit = 50

type SearchHandler struct {
	db *gorm.DB
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{db: db}
}

func (h *SearchHandler) Search(c *gin.Context) {
	user := middleware.CurrentUser(c)

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		httperr.BadRequest(c, "invalid_query", "q is required.")
		return
	}

	kind := c.DefaultQuery("type", "all")
	if kind != "all" && kind != "patients" && kind != "appointments" {
		httperr.BadRequest(c, "invalid_type", "type must be patients, appointments or all.")
		return
	}

	db := h.db.WithContext(c.Request.Context())
	resp := gin.H{"query": query}

	if kind == "all" || kind == "patients" {
		var patients []models.Patient
		if err := psychologistPatients(db, user.ID).Order("name ASC").Find(&patients).Error; err != nil {
			httperr.Internal(c, "search_failed", "Search failed.")
			return
		}

		// names carry accents, so folding happens in memory
		matched := make([]models.Patient, 0)
		for _, p := range patients {
			if search.Matches(query, p.Name, p.Email) {
				matched = append(matched, p)
				if len(matched) == searchLimit {
					break
				}
			}
		}
		resp["patients"] = matched
	}

	if kind == "all" || kind == "appointments" {
		pattern := search.LikePattern(query)

		appointments := make([]models.Appointment, 0)
		if err := db.
			Preload("Patient").
			Where("psychologist_id = ?", user.ID).
			Where("description ILIKE ? OR notes ILIKE ?", pattern, pattern).
			Order("date DESC, time DESC").
			Limit(searchLimit).
			Find(&appointments).Error; err != nil {
			httperr.Internal(c, "search_failed", "Search failed.")
			return
		}
		resp["appointments"] = appointments
	}

	c.JSON(http.StatusOK, resp)
}
