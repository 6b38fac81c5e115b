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

const maxChatMessage = 2000

type Replier interface {
	Reply(message string) string
	Crisis(message string) bool
}

// RiskNotifier alerts the psychologist responsible for a patient.
type RiskNotifier interface {
	RiskAlert(patientID uint, level, reason string)
}

type ChatHandler struct {
	db        *gorm.DB
	assistant Replier
	risk      RiskNotifier
}

func NewChatHandler(db *gorm.DB, assistant Replier, risk RiskNotifier) *ChatHandler {
	return &ChatHandler{db: db, assistant: assistant, risk: risk}
}

type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Message stores the user's turn and the assistant's answer together.
func (h *ChatHandler) Message(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "message is required.")
		return
	}

	text := strings.TrimSpace(req.Message)
	if text == "" || len(text) > maxChatMessage {
		httperr.BadRequest(c, "invalid_message", "Message must have between 1 and 2000 characters.")
		return
	}

	turns := []models.ChatMessage{
		{UserID: user.ID, Role: models.ChatRoleUser, Content: text},
		{UserID: user.ID, Role: models.ChatRoleAssistant, Content: h.assistant.Reply(text)},
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&turns).Error; err != nil {
		httperr.Internal(c, "chat_save_failed", "Could not store the conversation.")
		return
	}

	if user.IsPatient() && h.assistant.Crisis(text) {
		h.raiseRisk(c, user)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  turns[0],
		"response": turns[1],
	})
}

// raiseRisk alerts the psychologist of the patient profile behind user, if
// there is one.
func (h *ChatHandler) raiseRisk(c *gin.Context, user *models.User) {
	var p models.Patient
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", user.Email).
		Order("id ASC").
		First(&p).Error; err != nil {
		return
	}
	h.risk.RiskAlert(p.ID, "high", "crisis language in chat")
}

func (h *ChatHandler) History(c *gin.Context) {
	user := middleware.CurrentUser(c)
	skip, limit := skipLimit(c, 50, 200)

	var items []models.ChatMessage
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&items).Error; err != nil {
		httperr.Internal(c, "chat_history_failed", "Could not load history.")
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ChatHandler) Clear(c *gin.Context) {
	user := middleware.CurrentUser(c)

	res := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Delete(&models.ChatMessage{})
	if res.Error != nil {
		httperr.Internal(c, "chat_clear_failed", "Could not clear history.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": res.RowsAffected})
}
