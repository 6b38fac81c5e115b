// Package seeds loads demo psychologists and patients.
package seeds

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/timezone"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Psychologist struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Phone      string `yaml:"phone"`
	Specialty  string `yaml:"specialty"`
	CRP        string `yaml:"crp"`
	Bio        string `yaml:"bio"`
	Experience int    `yaml:"experience"`
}

// Patient gets a login account only when Password is set.
type Patient struct {
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	Phone        string `yaml:"phone"`
	BirthDate    string `yaml:"birth_date"`
	Psychologist string `yaml:"psychologist"`
}

type Fixtures struct {
	Psychologists []Psychologist `yaml:"psychologists"`
	Patients      []Patient      `yaml:"patients"`
}

func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	for i, p := range f.Psychologists {
		if p.Email == "" || p.Password == "" {
			return nil, fmt.Errorf("psychologist %d: email and password are required", i)
		}
		f.Psychologists[i].Email = validators.NormalizeEmail(p.Email)
	}
	for i, p := range f.Patients {
		if p.Email == "" {
			return nil, fmt.Errorf("patient %d: email is required", i)
		}
		if p.BirthDate != "" && !validators.IsDate(p.BirthDate) {
			return nil, fmt.Errorf("patient %s: birth_date must be YYYY-MM-DD", p.Email)
		}
		f.Patients[i].Email = validators.NormalizeEmail(p.Email)
		f.Patients[i].Psychologist = validators.NormalizeEmail(p.Psychologist)
	}

	return &f, nil
}

// Apply inserts whatever is missing, matching existing rows by email.
func Apply(ctx context.Context, db *gorm.DB, f *Fixtures, log zerolog.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := map[string]uint{}

		for _, p := range f.Psychologists {
			exp := p.Experience
			u := models.User{
				Name:       p.Name,
				Email:      p.Email,
				Phone:      p.Phone,
				Role:       models.RolePsychologist,
				Specialty:  p.Specialty,
				CRP:        p.CRP,
				Bio:        p.Bio,
				Experience: &exp,
				Status:     "active",
			}
			id, created, err := ensureUser(tx, &u, p.Password)
			if err != nil {
				return err
			}
			ids[p.Email] = id
			if created {
				log.Info().Str("email", p.Email).Msg("seeded psychologist")
			}
		}

		now := time.Now()
		for _, p := range f.Patients {
			var birth *time.Time
			age := 0
			if p.BirthDate != "" {
				t, _ := time.Parse(timezone.DateLayout, p.BirthDate)
				birth = &t
				age = timezone.Age(t, now)
			}

			if p.Password != "" {
				u := models.User{
					Name:      p.Name,
					Email:     p.Email,
					Phone:     p.Phone,
					Role:      models.RolePatient,
					Status:    "active",
					BirthDate: birth,
				}
				if _, _, err := ensureUser(tx, &u, p.Password); err != nil {
					return err
				}
			}

			var existing models.Patient
			err := tx.Where("email = ?", p.Email).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			row := models.Patient{
				Name:      p.Name,
				Email:     p.Email,
				Phone:     p.Phone,
				BirthDate: birth,
				Age:       age,
				Status:    "active",
			}
			if id, ok := ids[p.Psychologist]; ok {
				row.PsychologistID = &id
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			log.Info().Str("email", p.Email).Msg("seeded patient")
		}

		return nil
	})
}

func ensureUser(tx *gorm.DB, u *models.User, password string) (uint, bool, error) {
	var existing models.User
	err := tx.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, false, err
	}
	u.PasswordHash = hash

	if err := tx.Create(u).Error; err != nil {
		return 0, false, err
	}
	return u.ID, true, nil
}
