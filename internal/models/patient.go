package models

import "time"

// Patient is the clinical profile. Accounts with role patient get one at
// registration; intake approval creates one for people without an account.
type Patient struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"size:100;index" json:"email"`
	Phone     string     `gorm:"size:20" json:"phone"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Age       int        `json:"age"`
	Status    string     `gorm:"size:20;default:'active'" json:"status"`

	PsychologistID *uint `gorm:"index" json:"psychologist_id"`
	Psychologist   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"psychologist,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
