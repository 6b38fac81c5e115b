package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateProfileRequest struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	Specialty        *string `json:"specialty"`
	CRP              *string `json:"crp"`
	Bio              *string `json:"bio"`
	Experience       *int    `json:"experience"`
	EmergencyContact *string `json:"emergency_contact"`
	MedicalHistory   *string `json:"medical_history"`
}

// GetMe returns the account plus, for patients, the clinical profile sharing
// its email.
func (h *MeHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	resp := gin.H{"user": user}

	if user.IsPatient() {
		var patient models.Patient
		err := h.db.WithContext(c.Request.Context()).
			Preload("Psychologist").
			Where("email = ?", user.Email).
			First(&patient).Error
		if err == nil {
			resp["patient"] = patient
		}
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateMe patches the caller's own profile. Role and email are immutable.
func (h *MeHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty.")
			return
		}
		updates["name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.EmergencyContact != nil {
		updates["emergency_contact"] = *req.EmergencyContact
	}
	if req.MedicalHistory != nil {
		updates["medical_history"] = *req.MedicalHistory
	}

	if user.IsPsychologist() {
		if req.Specialty != nil {
			updates["specialty"] = *req.Specialty
		}
		if req.CRP != nil {
			updates["crp"] = *req.CRP
		}
		if req.Bio != nil {
			updates["bio"] = *req.Bio
		}
		if req.Experience != nil {
			if *req.Experience < 0 {
				httperr.BadRequest(c, "invalid_experience", "Experience cannot be negative.")
				return
			}
			updates["experience"] = *req.Experience
		}
	}

	db := h.db.WithContext(c.Request.Context())

	if len(updates) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			httperr.Internal(c, "profile_update_failed", "Could not update profile.")
			return
		}
	}

	var fresh models.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		httperr.Internal(c, "profile_update_failed", "Could not update profile.")
		return
	}

	c.JSON(http.StatusOK, fresh)
}
