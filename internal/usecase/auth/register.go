package auth

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/timezone"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string

	Specialty string
	CRP       string

	// YYYY-MM-DD, optional
	BirthDate string

	Origin audit.Origin
}

type Register struct {
	sessions
	audit       *audit.Dispatcher
	checkDomain func(email string) bool
}

// NewRegister builds the use case. checkDomain may be nil to skip the
// MX/A lookup on the email domain.
func NewRegister(
	repo account.Repository,
	tokens *auth.TokenIssuer,
	refreshTTL time.Duration,
	audit *audit.Dispatcher,
	checkDomain func(email string) bool,
) *Register {
	return &Register{
		sessions:    newSessions(repo, tokens, refreshTTL),
		audit:       audit,
		checkDomain: checkDomain,
	}
}

func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*Session, error) {
	email := validators.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	// --------------------------------------------------
	// Validation
	// --------------------------------------------------
	if name == "" || !strings.Contains(email, "@") {
		return nil, httperr.Validation("invalid_request", "Name and a valid email are required.")
	}
	if len(in.Password) < minPasswordLength {
		return nil, httperr.Validation("weak_password", "Password must have at least 6 characters.")
	}
	if in.Role != models.RolePsychologist && in.Role != models.RolePatient {
		return nil, httperr.Validation("invalid_role", "Role must be psychologist or patient.")
	}
	if uc.checkDomain != nil && !uc.checkDomain(email) {
		return nil, httperr.Validation("invalid_email_domain", "Email domain does not accept mail.")
	}

	var birth *time.Time
	if in.BirthDate != "" {
		t, err := time.Parse(timezone.DateLayout, in.BirthDate)
		if err != nil {
			return nil, httperr.Validation("invalid_birth_date", "Birth date must be YYYY-MM-DD.")
		}
		birth = &t
	}

	// --------------------------------------------------
	// Friendly duplicate check; the unique index decides
	// --------------------------------------------------
	if _, err := uc.repo.FindUserByEmail(ctx, email); err == nil {
		return nil, httperr.Conflict("email_already_registered", "Email already registered.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         in.Role,
		Specialty:    in.Specialty,
		CRP:          in.CRP,
		Status:       "active",
		BirthDate:    birth,
	}

	var patient *models.Patient
	if u.IsPatient() {
		patient = &models.Patient{
			Name:      name,
			Email:     email,
			Phone:     in.Phone,
			BirthDate: birth,
			Status:    "active",
		}
		if birth != nil {
			patient.Age = timezone.Age(*birth, uc.now())
		}
	}

	if err := uc.repo.CreateUser(ctx, u, patient); err != nil {
		return nil, err
	}

	session, err := uc.open(ctx, u)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(in.Origin.Event(u.ID, "register", "user", u.ID))
	return session, nil
}
