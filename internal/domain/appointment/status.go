package appointment

import "github.com/BruksfildServices01/psi-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusCompleted   Status = "completed"
	StatusCanceled    Status = "canceled"
	StatusRescheduled Status = "rescheduled"
)

const TypeEmergency = "emergency"

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCanceled, StatusRescheduled:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", httperr.Validation("invalid_status", "Status must be scheduled, completed, canceled or rescheduled.")
	}
	return s, nil
}

func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
