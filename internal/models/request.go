package models

import "time"

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Request is an intake request sent by a prospective patient.
type Request struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientName  string `gorm:"size:100;not null" json:"patient_name"`
	PatientEmail string `gorm:"size:100;not null" json:"patient_email"`
	PatientPhone string `gorm:"size:20" json:"patient_phone"`

	PreferredPsychologistID uint  `gorm:"index" json:"preferred_psychologist"`
	PreferredPsychologist   *User `gorm:"foreignKey:PreferredPsychologistID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Description string `gorm:"type:text" json:"description"`
	Urgency     string `gorm:"size:20" json:"urgency"`

	// JSON arrays
	PreferredDates string `gorm:"type:text;default:'[]'" json:"-"`
	PreferredTimes string `gorm:"type:text;default:'[]'" json:"-"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	PatientID *uint `json:"patient_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
