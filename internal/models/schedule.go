package models

import "time"

// Schedule is one weekday of a psychologist's availability template.
type Schedule struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	PsychologistID uint `gorm:"index" json:"psychologist_id"`

	// 0 = Sunday
	DayOfWeek    int    `json:"day_of_week"`
	StartTime    string `gorm:"size:5" json:"start_time"`
	EndTime      string `gorm:"size:5" json:"end_time"`
	SlotDuration int    `gorm:"default:50" json:"slot_duration"`
	IsActive     bool   `gorm:"not null" json:"is_active"`

	// JSON array of YYYY-MM-DD
	Exceptions string `gorm:"type:text;default:'[]'" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
