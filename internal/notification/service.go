package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/realtime"
)

const emergencyType = "emergency"

// Store is what the service needs from persistence.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// recipient is the person behind an appointment's patient. UserID is zero
// when the patient has no account; in-app notifications are then skipped.
type recipient struct {
	UserID uint
	Name   string
	Email  string
	Phone  string
}

type Service struct {
	store Store
	push  realtime.Publisher
	email EmailSender
	sms   SMSSender
	jobs  *Dispatcher
	log   zerolog.Logger
}

func NewService(
	store Store,
	push realtime.Publisher,
	email EmailSender,
	sms SMSSender,
	jobs *Dispatcher,
	log zerolog.Logger,
) *Service {
	return &Service{
		store: store,
		push:  push,
		email: email,
		sms:   sms,
		jobs:  jobs,
		log:   log.With().Str("component", "notification").Logger(),
	}
}

// Create persists an in-app notification and pushes it to the user's open
// connections. Push failures are logged only.
func (s *Service) Create(
	ctx context.Context,
	userID uint,
	kind string,
	title string,
	message string,
	actionURL *string,
) (*models.Notification, error) {

	n := &models.Notification{
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		ActionURL: actionURL,
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	if s.push != nil {
		ev := realtime.Event{
			Type: realtime.EventNotification,
			Data: map[string]any{
				"id":      n.ID,
				"title":   n.Title,
				"message": n.Message,
				"type":    n.Type,
			},
		}
		if err := s.push.Publish(ctx, userID, ev); err != nil {
			s.log.Warn().Err(err).Uint("user_id", userID).Msg("realtime push failed")
		}
	}

	return n, nil
}

// ======================================================
// Triggers
// ======================================================

func (s *Service) AppointmentConfirmed(ap models.Appointment) {
	s.jobs.Enqueue("appointment_confirmed", func(ctx context.Context) {
		to, ok := s.resolve(ctx, ap)
		if !ok {
			return
		}

		s.inApp(ctx, to, models.NotificationConfirmation, "Appointment confirmed",
			fmt.Sprintf("Your appointment is confirmed for %s at %s", ap.Date, ap.Time),
			appointmentURL(ap.ID))

		subject, body := confirmationEmail(to.Name, ap.Date, ap.Time)
		s.sendEmail(ctx, to, subject, body)

		if ap.Type == emergencyType {
			s.sendSMS(ctx, to, fmt.Sprintf("Appointment confirmed for %s at %s.", ap.Date, ap.Time))
		}
	})
}

func (s *Service) AppointmentStatusChanged(ap models.Appointment) {
	s.jobs.Enqueue("appointment_status_changed", func(ctx context.Context) {
		to, ok := s.resolve(ctx, ap)
		if !ok {
			return
		}

		s.inApp(ctx, to, models.NotificationStatus, "Appointment updated",
			fmt.Sprintf("Your appointment on %s at %s is now %s", ap.Date, ap.Time, ap.Status),
			appointmentURL(ap.ID))

		subject, body := statusEmail(to.Name, ap.Date, ap.Time, ap.Status)
		s.sendEmail(ctx, to, subject, body)
	})
}

func (s *Service) AppointmentCanceled(ap models.Appointment, reason string) {
	if reason == "" {
		reason = "not informed"
	}

	s.jobs.Enqueue("appointment_canceled", func(ctx context.Context) {
		to, ok := s.resolve(ctx, ap)
		if !ok {
			return
		}

		s.inApp(ctx, to, models.NotificationCancellation, "Appointment canceled",
			fmt.Sprintf("Your appointment on %s at %s was canceled. Reason: %s", ap.Date, ap.Time, reason),
			nil)

		subject, body := cancellationEmail(to.Name, ap.Date, ap.Time, reason)
		s.sendEmail(ctx, to, subject, body)

		if ap.Type == emergencyType {
			s.sendSMS(ctx, to, fmt.Sprintf("Your appointment on %s at %s was canceled.", ap.Date, ap.Time))
		}
	})
}

func (s *Service) AppointmentReminder(ap models.Appointment) {
	s.jobs.Enqueue("appointment_reminder", func(ctx context.Context) {
		to, ok := s.resolve(ctx, ap)
		if !ok {
			return
		}

		s.inApp(ctx, to, models.NotificationReminder, "Appointment reminder",
			fmt.Sprintf("You have an appointment on %s at %s", ap.Date, ap.Time),
			appointmentURL(ap.ID))

		subject, body := reminderEmail(to.Name, ap.Date, ap.Time)
		s.sendEmail(ctx, to, subject, body)

		if ap.Type == emergencyType {
			s.sendSMS(ctx, to, fmt.Sprintf("Reminder: appointment on %s at %s.", ap.Date, ap.Time))
		}
	})
}

// RiskAlert notifies the psychologist responsible for the patient.
func (s *Service) RiskAlert(patientID uint, level, reason string) {
	s.jobs.Enqueue("risk_alert", func(ctx context.Context) {
		p, err := s.store.GetPatient(ctx, patientID)
		if err != nil || p.PsychologistID == nil {
			return
		}

		url := fmt.Sprintf("/patients/%d", patientID)
		if _, err := s.Create(ctx, *p.PsychologistID, models.NotificationAlert,
			fmt.Sprintf("Risk alert: %s", level),
			fmt.Sprintf("Patient %s flagged as %s: %s", p.Name, level, reason),
			&url); err != nil {
			s.log.Warn().Err(err).Msg("risk alert not stored")
		}
	})
}

func (s *Service) RequestAccepted(patientName, patientEmail string, psychologistID uint) {
	s.jobs.Enqueue("request_accepted", func(ctx context.Context) {
		psychologist := "Your psychologist"
		if u, err := s.store.GetUser(ctx, psychologistID); err == nil {
			psychologist = u.Name
		}

		to := recipient{Name: patientName, Email: patientEmail}
		if u, err := s.store.FindUserByEmail(ctx, patientEmail); err == nil {
			to.UserID = u.ID
		}

		s.inApp(ctx, to, models.NotificationSystem, "Request accepted",
			fmt.Sprintf("%s accepted your request", psychologist), nil)

		subject, body := requestAcceptedEmail(patientName, psychologist)
		s.sendEmail(ctx, to, subject, body)
	})
}

func (s *Service) PasswordReset(name, email, link string) {
	s.jobs.Enqueue("password_reset", func(ctx context.Context) {
		subject, body := resetEmail(name, link)
		s.sendEmail(ctx, recipient{Name: name, Email: email}, subject, body)
	})
}

// ======================================================
// Helpers
// ======================================================

func (s *Service) resolve(ctx context.Context, ap models.Appointment) (recipient, bool) {
	p := ap.Patient
	if p == nil {
		loaded, err := s.store.GetPatient(ctx, ap.PatientID)
		if err != nil {
			s.log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("appointment patient not found")
			return recipient{}, false
		}
		p = loaded
	}

	to := recipient{Name: p.Name, Email: p.Email, Phone: p.Phone}
	if p.Email != "" {
		if u, err := s.store.FindUserByEmail(ctx, p.Email); err == nil {
			to.UserID = u.ID
			if to.Phone == "" {
				to.Phone = u.Phone
			}
		}
	}
	return to, true
}

func (s *Service) inApp(ctx context.Context, to recipient, kind, title, message string, url *string) {
	if to.UserID == 0 {
		return
	}
	if _, err := s.Create(ctx, to.UserID, kind, title, message, url); err != nil {
		s.log.Warn().Err(err).Uint("user_id", to.UserID).Msg("notification not stored")
	}
}

func (s *Service) sendEmail(ctx context.Context, to recipient, subject, body string) {
	if s.email == nil || to.Email == "" {
		return
	}
	if err := s.email.SendEmail(ctx, to.Email, subject, body); err != nil {
		s.log.Warn().Err(err).Str("to", to.Email).Msg("email delivery failed")
	}
}

func (s *Service) sendSMS(ctx context.Context, to recipient, body string) {
	if s.sms == nil || to.Phone == "" {
		return
	}
	if err := s.sms.SendSMS(ctx, to.Phone, body); err != nil {
		s.log.Warn().Err(err).Msg("sms delivery failed")
	}
}

func appointmentURL(id uint) *string {
	u := fmt.Sprintf("/appointments/%d", id)
	return &u
}
