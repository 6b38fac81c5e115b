package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/psi-scheduler/internal/chat"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

type riskAlert struct {
	patientID uint
	level     string
}

type recordingRisk struct {
	alerts []riskAlert
}

func (r *recordingRisk) RiskAlert(patientID uint, level, _ string) {
	r.alerts = append(r.alerts, riskAlert{patientID: patientID, level: level})
}

type chatBody struct {
	Message  models.ChatMessage `json:"message"`
	Response models.ChatMessage `json:"response"`
}

func TestChatMessage_CrisisRaisesRiskAlert(t *testing.T) {
	db := newTestDB(t)
	psy := addUser(t, db, models.RolePsychologist, "psy@clinic.test")
	user := addUser(t, db, models.RolePatient, "ana@mail.test")
	p := addPatient(t, db, "Ana", "ana@mail.test", &psy.ID)

	risk := &recordingRisk{}
	h := NewChatHandler(db, chat.NewAssistant(), risk)

	w := call(t, user, http.MethodPost, "/chat/message", "/chat/message", gin.H{"message": "Às vezes eu QUERO MORRER"}, h.Message)
	if w.Code != http.StatusOK {
		t.Fatalf("message: %d %s", w.Code, w.Body.String())
	}

	body := decode[chatBody](t, w)
	if body.Message.Role != models.ChatRoleUser || body.Response.Role != models.ChatRoleAssistant {
		t.Fatalf("unexpected turns %+v", body)
	}
	if !strings.Contains(body.Response.Content, "188") {
		t.Fatalf("crisis reply must point to CVV, got %q", body.Response.Content)
	}

	if len(risk.alerts) != 1 || risk.alerts[0].patientID != p.ID || risk.alerts[0].level != "high" {
		t.Fatalf("expected one high alert for patient %d, got %+v", p.ID, risk.alerts)
	}

	var stored int64
	db.Model(&models.ChatMessage{}).Where("user_id = ?", user.ID).Count(&stored)
	if stored != 2 {
		t.Fatalf("expected both turns stored, got %d", stored)
	}
}

func TestChatMessage_NoAlertWithoutCrisisOrPatient(t *testing.T) {
	db := newTestDB(t)
	psy := addUser(t, db, models.RolePsychologist, "psy@clinic.test")
	user := addUser(t, db, models.RolePatient, "ana@mail.test")
	addPatient(t, db, "Ana", "ana@mail.test", &psy.ID)

	risk := &recordingRisk{}
	h := NewChatHandler(db, chat.NewAssistant(), risk)

	send := func(u *models.User, msg string) {
		t.Helper()
		w := call(t, u, http.MethodPost, "/chat/message", "/chat/message", gin.H{"message": msg}, h.Message)
		if w.Code != http.StatusOK {
			t.Fatalf("message: %d %s", w.Code, w.Body.String())
		}
	}

	send(user, "Como faço para remarcar a consulta?")
	// psychologists quoting a patient do not raise alerts
	send(psy, "paciente disse que quer se matar, quero morrer")

	orphan := addUser(t, db, models.RolePatient, "sem.perfil@mail.test")
	send(orphan, "I want to die")

	if len(risk.alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", risk.alerts)
	}

	w := call(t, user, http.MethodPost, "/chat/message", "/chat/message", gin.H{"message": "   "}, h.Message)
	expectError(t, w, http.StatusBadRequest, "invalid_message")
}

func TestChatHistoryAndClear_AreScopedToCaller(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, models.RolePatient, "ana@mail.test")
	other := addUser(t, db, models.RolePatient, "bia@mail.test")
	h := NewChatHandler(db, chat.NewAssistant(), &recordingRisk{})

	for _, u := range []*models.User{user, other} {
		w := call(t, u, http.MethodPost, "/chat/message", "/chat/message", gin.H{"message": "oi"}, h.Message)
		if w.Code != http.StatusOK {
			t.Fatalf("message: %d %s", w.Code, w.Body.String())
		}
	}

	w := call(t, user, http.MethodGet, "/chat/history", "/chat/history", nil, h.History)
	if w.Code != http.StatusOK {
		t.Fatalf("history: %d %s", w.Code, w.Body.String())
	}
	history := decode[[]models.ChatMessage](t, w)
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != models.ChatRoleAssistant {
		t.Fatalf("history must be newest first, got %s first", history[0].Role)
	}

	w = call(t, user, http.MethodDelete, "/chat/history", "/chat/history", nil, h.Clear)
	if got := decode[struct {
		Deleted int64 `json:"deleted"`
	}](t, w).Deleted; got != 2 {
		t.Fatalf("expected 2 deleted, got %d", got)
	}

	var left int64
	db.Model(&models.ChatMessage{}).Where("user_id = ?", other.ID).Count(&left)
	if left != 2 {
		t.Fatalf("clear removed another user's history: %d left", left)
	}
}
