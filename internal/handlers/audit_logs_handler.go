package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	skip, limit := skipLimit(c, 50, 200)

	from, ok := optionalDate(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to")
	if !ok {
		return
	}

	// --------------------------------------------------
	// Base query, always scoped to the caller
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("user_id = ?", user.ID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if from != "" {
		t, _ := time.Parse(timezone.DateLayout, from)
		q = q.Where("created_at >= ?", t)
	}
	if to != "" {
		t, _ := time.Parse(timezone.DateLayout, to)
		q = q.Where("created_at < ?", t.Add(24*time.Hour))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Could not count audit logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"skip":  skip,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
