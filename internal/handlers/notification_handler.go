package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// NotificationCreator persists a notification and pushes it live.
type NotificationCreator interface {
	Create(ctx context.Context, userID uint, kind, title, message string, actionURL *string) (*models.Notification, error)
}

type NotificationHandler struct {
	db      *gorm.DB
	creator NotificationCreator
}

func NewNotificationHandler(db *gorm.DB, creator NotificationCreator) *NotificationHandler {
	return &NotificationHandler{db: db, creator: creator}
}

type SendNotificationRequest struct {
	UserID    uint    `json:"user_id" binding:"required"`
	Type      string  `json:"type"`
	Title     string  `json:"title" binding:"required"`
	Message   string  `json:"message" binding:"required"`
	ActionURL *string `json:"action_url"`
}

func (h *NotificationHandler) mine(c *gin.Context) *gorm.DB {
	user := middleware.CurrentUser(c)
	return h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ?", user.ID)
}

func (h *NotificationHandler) List(c *gin.Context) {
	skip, limit := skipLimit(c, 50, 200)

	q := h.mine(c)

	if raw := c.Query("read"); raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_filter", "read must be true or false.")
			return
		}
		q = q.Where("read = ?", read)
	}
	if kind := c.Query("type"); kind != "" {
		q = q.Where("type = ?", kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "notification_count_failed", "Could not count notifications.")
		return
	}

	var items []models.Notification
	if err := q.Order("created_at DESC").Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		httperr.Internal(c, "notification_list_failed", "Could not list notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":         total,
		"skip":          skip,
		"limit":         limit,
		"notifications": items,
	})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	var n int64
	if err := h.mine(c).Where("read = ?", false).Count(&n).Error; err != nil {
		httperr.Internal(c, "notification_count_failed", "Could not count notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.mine(c).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		httperr.Internal(c, "notification_update_failed", "Could not update notification.")
		return
	}
	if res.RowsAffected == 0 {
		if !h.exists(c, id) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read."})
}

// exists distinguishes "already read" from "not yours / missing" after an
// update touched no rows.
func (h *NotificationHandler) exists(c *gin.Context, id uint) bool {
	var n models.Notification
	err := h.mine(c).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFoundResponse(c, "notification_not_found", "Notification not found.")
		return false
	}
	if err != nil {
		httperr.Internal(c, "notification_load_failed", "Could not load notification.")
		return false
	}
	return true
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	res := h.mine(c).Where("read = ?", false).Update("read", true)
	if res.Error != nil {
		httperr.Internal(c, "notification_update_failed", "Could not update notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.Notification{})
	if res.Error != nil {
		httperr.Internal(c, "notification_delete_failed", "Could not delete notification.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFoundResponse(c, "notification_not_found", "Notification not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted."})
}

// Send lets a psychologist post a notification to another user.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "user_id, title and message are required.")
		return
	}

	var target models.User
	err := h.db.WithContext(c.Request.Context()).First(&target, req.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFoundResponse(c, "user_not_found", "User not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "notification_send_failed", "Could not send notification.")
		return
	}

	kind := req.Type
	if kind == "" {
		kind = models.NotificationSystem
	}

	n, err := h.creator.Create(c.Request.Context(), target.ID, kind, req.Title, req.Message, req.ActionURL)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}
