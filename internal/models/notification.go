package models

import "time"

const (
	NotificationReminder     = "reminder"
	NotificationConfirmation = "confirmation"
	NotificationCancellation = "cancellation"
	NotificationStatus       = "status_change"
	NotificationAlert        = "alert"
	NotificationSystem       = "system"
)

type Notification struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Type      string  `gorm:"size:30" json:"type"`
	Title     string  `gorm:"size:150" json:"title"`
	Message   string  `gorm:"type:text" json:"message"`
	Read      bool    `gorm:"default:false;index" json:"read"`
	ActionURL *string `gorm:"size:255" json:"action_url"`

	CreatedAt time.Time `json:"created_at"`
}
