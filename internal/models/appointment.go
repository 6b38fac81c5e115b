package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint     `gorm:"index" json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient,omitempty"`

	PsychologistID uint  `gorm:"index" json:"psychologist_id"`
	Psychologist   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"psychologist,omitempty"`

	// Date is YYYY-MM-DD and Time is HH:MM in the practice timezone.
	Date string `gorm:"size:10;not null;index" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Status      string `gorm:"size:20;default:'scheduled';index" json:"status"`
	Type        string `gorm:"size:20;default:'regular'" json:"type"`
	Description string `gorm:"size:255" json:"description"`
	Duration    int    `gorm:"default:50" json:"duration"`
	Notes       string `gorm:"type:text" json:"notes"`
	FullReport  string `gorm:"type:text" json:"full_report"`

	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
