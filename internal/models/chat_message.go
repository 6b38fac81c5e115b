package models

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index" json:"user_id"`
	Role    string `gorm:"size:20" json:"role"`
	Content string `gorm:"type:text" json:"content"`

	Metadata string `gorm:"type:text;default:'{}'" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
