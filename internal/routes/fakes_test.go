package routes

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// memBackend stands in for postgres behind both the account and the
// appointment ports.
type memBackend struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	patients     map[uint]*models.Patient
	appointments map[uint]*models.Appointment
	tokens       map[string]*models.RefreshToken
	nextUser     uint
	nextAppt     uint
}

func newMemBackend() *memBackend {
	return &memBackend{
		users:        map[uint]*models.User{},
		patients:     map[uint]*models.Patient{},
		appointments: map[uint]*models.Appointment{},
		tokens:       map[string]*models.RefreshToken{},
	}
}

func (m *memBackend) addUser(u *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUser++
	u.ID = m.nextUser
	m.users[u.ID] = u
	return u
}

func (m *memBackend) addPatient(p *models.Patient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patients[p.ID] = p
}

// -------- account.Repository --------

func (m *memBackend) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, httperr.NotFound("user_not_found", "")
}

func (m *memBackend) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, httperr.NotFound("user_not_found", "")
}

func (m *memBackend) CreateUser(_ context.Context, u *models.User, p *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return httperr.Conflict("email_already_registered", "Email already registered.")
		}
	}
	m.nextUser++
	u.ID = m.nextUser
	m.users[u.ID] = u
	if p != nil {
		p.ID = 100 + u.ID
		m.patients[p.ID] = p
	}
	return nil
}

func (m *memBackend) UpdatePassword(_ context.Context, id uint, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return httperr.NotFound("user_not_found", "")
	}
	u.PasswordHash = hash
	return nil
}

func (m *memBackend) StoreRefreshToken(_ context.Context, t *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.TokenHash] = t
	return nil
}

func (m *memBackend) RotateRefreshToken(_ context.Context, oldHash string, next *models.RefreshToken, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tokens[oldHash]
	if !ok || !cur.IsValid(now) {
		return httperr.Unauthorized("invalid_refresh_token", "Invalid or expired refresh token.")
	}
	cur.Revoked = true
	next.UserID = cur.UserID
	m.tokens[next.TokenHash] = next
	return nil
}

func (m *memBackend) RevokeRefreshToken(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[hash]; ok {
		t.Revoked = true
	}
	return nil
}

func (m *memBackend) SetAvatar(_ context.Context, userID uint, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return "", httperr.NotFound("user_not_found", "")
	}
	prev := u.Avatar
	u.Avatar = url
	return prev, nil
}

// -------- appointment Repository --------

func (m *memBackend) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.patients[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, httperr.NotFound("patient_not_found", "")
}

func (m *memBackend) FindPatientByEmail(_ context.Context, email string) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, httperr.NotFound("patient_not_found", "")
}

func (m *memBackend) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ap, ok := m.appointments[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, httperr.NotFound("appointment_not_found", "")
}

func (m *memBackend) ListForPsychologist(_ context.Context, id uint, f domain.ListFilter) ([]models.Appointment, error) {
	return m.list(func(ap *models.Appointment) bool { return ap.PsychologistID == id }, f), nil
}

func (m *memBackend) ListForPatient(_ context.Context, id uint, f domain.ListFilter) ([]models.Appointment, error) {
	return m.list(func(ap *models.Appointment) bool { return ap.PatientID == id }, f), nil
}

func (m *memBackend) list(keep func(*models.Appointment) bool, f domain.ListFilter) []models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for id := uint(1); id <= m.nextAppt; id++ {
		ap, ok := m.appointments[id]
		if !ok || !keep(ap) {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		out = append(out, *ap)
	}
	return out
}

func (m *memBackend) takenLocked(psy uint, date, clock string, exclude uint) bool {
	for _, ap := range m.appointments {
		if ap.ID != exclude && ap.PsychologistID == psy && ap.Date == date && ap.Time == clock &&
			ap.Status == string(domain.StatusScheduled) {
			return true
		}
	}
	return false
}

func (m *memBackend) SlotTaken(_ context.Context, psy uint, date, clock string, exclude uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.takenLocked(psy, date, clock, exclude), nil
}

func (m *memBackend) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ap.Status == string(domain.StatusScheduled) && m.takenLocked(ap.PsychologistID, ap.Date, ap.Time, 0) {
		return httperr.Conflict("slot_unavailable", "Time slot is not available.")
	}
	m.nextAppt++
	ap.ID = m.nextAppt
	cp := *ap
	m.appointments[ap.ID] = &cp
	return nil
}

func (m *memBackend) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ap.Status == string(domain.StatusScheduled) && m.takenLocked(ap.PsychologistID, ap.Date, ap.Time, ap.ID) {
		return httperr.Conflict("slot_unavailable", "Time slot is not available.")
	}
	cp := *ap
	m.appointments[ap.ID] = &cp
	return nil
}

func (m *memBackend) ScheduledTimes(_ context.Context, psy uint, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, ap := range m.appointments {
		if ap.PsychologistID == psy && ap.Date == date && ap.Status == string(domain.StatusScheduled) {
			out = append(out, ap.Time)
		}
	}
	return out, nil
}

var (
	_ account.Repository = (*memBackend)(nil)
	_ domain.Repository  = (*memBackend)(nil)
	_ AccountStore       = (*memBackend)(nil)
)

// -------- notifications --------

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []uint
	canceled  []uint
}

func (n *recordingNotifier) AppointmentConfirmed(ap models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, ap.ID)
}

func (n *recordingNotifier) AppointmentStatusChanged(models.Appointment) {}

func (n *recordingNotifier) AppointmentCanceled(ap models.Appointment, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.canceled = append(n.canceled, ap.ID)
}

func (n *recordingNotifier) AppointmentReminder(models.Appointment) {}

func (n *recordingNotifier) PasswordReset(_, _, _ string) {}

func (n *recordingNotifier) RequestAccepted(_, _ string, _ uint) {}

func (n *recordingNotifier) RiskAlert(_ uint, _, _ string) {}

func (n *recordingNotifier) Create(_ context.Context, userID uint, kind, title, message string, url *string) (*models.Notification, error) {
	return &models.Notification{UserID: userID, Type: kind, Title: title, Message: message, ActionURL: url}, nil
}

var _ Notifier = (*recordingNotifier)(nil)
