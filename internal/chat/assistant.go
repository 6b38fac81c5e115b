// Package chat answers patient messages with canned guidance. It has no
// model behind it; replies are picked by keyword.
package chat

import "github.com/BruksfildServices01/psi-scheduler/internal/search"

type rule struct {
	keywords []string
	reply    string
}

const crisisReply = "It sounds like you are going through something very hard. Your psychologist has been notified. If you are in danger right now, call 188 (CVV) or your local emergency number."

// crisisKeywords mention self-harm. They win over every other rule.
var crisisKeywords = []string{
	"suicídio", "me matar", "quero morrer", "tirar minha vida", "me machucar",
	"suicide", "kill myself", "want to die", "self-harm", "hurt myself",
}

const defaultReply = "I understand. How can I help you specifically? I can help with appointments, session information or general questions about the platform."

var rules = []rule{
	{
		keywords: []string{"olá", "oi", "bom dia", "boa tarde", "boa noite", "hello", "hi ", "good morning"},
		reply:    "Hello! How can I help you today?",
	},
	{
		keywords: []string{"ajuda", "socorro", "help"},
		reply:    "I'm here to help! You can ask me about appointments, sessions or general information about the platform.",
	},
	{
		keywords: []string{"agendar", "consulta", "horário", "schedule", "book", "appointment"},
		reply:    "To book a session open Appointments in the main menu. You will see the available times and can pick your slot there.",
	},
	{
		keywords: []string{"cancelar", "desmarcar", "cancel"},
		reply:    "To cancel a session go to My Appointments and choose cancel. Please cancel at least 12 hours in advance.",
	},
	{
		keywords: []string{"psicólogo", "terapeuta", "profissional", "psychologist", "therapist"},
		reply:    "You can browse every available psychologist in the Professionals section, with their specialties and availability.",
	},
}

type Assistant struct{}

func NewAssistant() *Assistant {
	return &Assistant{}
}

// Crisis reports whether message talks about self-harm.
func (a *Assistant) Crisis(message string) bool {
	return search.ContainsAny(message, crisisKeywords...)
}

// Reply returns the first matching rule's answer, or a generic prompt.
func (a *Assistant) Reply(message string) string {
	if a.Crisis(message) {
		return crisisReply
	}

	padded := " " + message + " "
	for _, r := range rules {
		if search.ContainsAny(padded, r.keywords...) {
			return r.reply
		}
	}
	return defaultReply
}
