package appointment

import (
	"context"
	"sync"

	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

// memRepo mirrors the postgres behaviour, including the partial unique
// index on scheduled slots.
type memRepo struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	patients     map[uint]*models.Patient
	appointments map[uint]*models.Appointment
	nextID       uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		users: map[uint]*models.User{
			1: {ID: 1, Name: "Dr. Lima", Email: "dr@test", Role: models.RolePsychologist},
			2: {ID: 2, Name: "Dr. Reis", Email: "reis@test", Role: models.RolePsychologist},
			3: {ID: 3, Name: "Ana", Email: "ana@test", Role: models.RolePatient},
			4: {ID: 4, Name: "Bia", Email: "bia@test", Role: models.RolePatient},
		},
		patients: map[uint]*models.Patient{
			10: {ID: 10, Name: "Ana", Email: "ana@test"},
			11: {ID: 11, Name: "Bia", Email: "bia@test"},
		},
		appointments: map[uint]*models.Appointment{},
	}
}

func (m *memRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, httperr.NotFound("user_not_found", "")
}

func (m *memRepo) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.patients[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, httperr.NotFound("patient_not_found", "")
}

func (m *memRepo) FindPatientByEmail(_ context.Context, email string) (*models.Patient, error) {
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

func (m *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ap, ok := m.appointments[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, httperr.NotFound("appointment_not_found", "")
}

func (m *memRepo) ListForPsychologist(_ context.Context, id uint, f domain.ListFilter) ([]models.Appointment, error) {
	return m.filter(func(ap *models.Appointment) bool { return ap.PsychologistID == id }, f), nil
}

func (m *memRepo) ListForPatient(_ context.Context, id uint, f domain.ListFilter) ([]models.Appointment, error) {
	return m.filter(func(ap *models.Appointment) bool { return ap.PatientID == id }, f), nil
}

func (m *memRepo) filter(keep func(*models.Appointment) bool, f domain.ListFilter) []models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for id := uint(1); id <= m.nextID; id++ {
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

func (m *memRepo) SlotTaken(_ context.Context, psy uint, date, clock string, exclude uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.takenLocked(psy, date, clock, exclude), nil
}

func (m *memRepo) takenLocked(psy uint, date, clock string, exclude uint) bool {
	for _, ap := range m.appointments {
		if ap.ID != exclude && ap.PsychologistID == psy && ap.Date == date && ap.Time == clock &&
			ap.Status == string(domain.StatusScheduled) {
			return true
		}
	}
	return false
}

func (m *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ap.Status == string(domain.StatusScheduled) && m.takenLocked(ap.PsychologistID, ap.Date, ap.Time, 0) {
		return httperr.Conflict("slot_unavailable", "")
	}
	m.nextID++
	ap.ID = m.nextID
	cp := *ap
	cp.Patient = nil
	m.appointments[ap.ID] = &cp
	return nil
}

func (m *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ap.Status == string(domain.StatusScheduled) && m.takenLocked(ap.PsychologistID, ap.Date, ap.Time, ap.ID) {
		return httperr.Conflict("slot_unavailable", "")
	}
	cp := *ap
	cp.Patient = nil
	m.appointments[ap.ID] = &cp
	return nil
}

func (m *memRepo) ScheduledTimes(_ context.Context, psy uint, date string) ([]string, error) {
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

type notifyLog struct {
	mu        sync.Mutex
	confirmed []uint
	changed   []string
	canceled  []uint
	reminded  []uint
}

func (n *notifyLog) AppointmentConfirmed(ap models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, ap.ID)
}

func (n *notifyLog) AppointmentStatusChanged(ap models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, ap.Status)
}

func (n *notifyLog) AppointmentCanceled(ap models.Appointment, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.canceled = append(n.canceled, ap.ID)
}

func (n *notifyLog) AppointmentReminder(ap models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminded = append(n.reminded, ap.ID)
}

var _ domain.Repository = (*memRepo)(nil)
