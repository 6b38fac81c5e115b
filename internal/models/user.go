package models

import "time"

const (
	RolePsychologist = "psychologist"
	RolePatient      = "patient"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;not null;index" json:"role"`

	Specialty string `gorm:"size:100" json:"specialty,omitempty"`
	CRP       string `gorm:"size:30" json:"crp,omitempty"`
	Bio       string `gorm:"type:text" json:"bio,omitempty"`
	// years of practice
	Experience *int `json:"experience,omitempty"`

	Avatar string `gorm:"size:255" json:"avatar,omitempty"`
	Status string `gorm:"size:20;default:'active'" json:"status"`

	BirthDate        *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	EmergencyContact string     `gorm:"size:100" json:"emergency_contact,omitempty"`
	MedicalHistory   string     `gorm:"type:text" json:"medical_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsPsychologist() bool {
	return u.Role == RolePsychologist
}

func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}
