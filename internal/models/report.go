package models

import "time"

const (
	ReportIndividual  = "individual"
	ReportGeneral     = "general"
	ReportStatistical = "statistical"
)

type Report struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	PsychologistID uint  `gorm:"index" json:"psychologist_id"`
	PatientID      *uint `json:"patient_id"`

	Type    string `gorm:"size:20" json:"type"`
	Title   string `gorm:"size:150" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	// JSON
	Data string `gorm:"type:text;default:'{}'" json:"-"`

	StartDate *string `gorm:"size:10" json:"start_date"`
	EndDate   *string `gorm:"size:10" json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
}
