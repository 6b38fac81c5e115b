package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSendEmail_SimulatedWithoutCredentials(t *testing.T) {
	m := New(Config{Host: "smtp.test", Port: 587}, zerolog.Nop())
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("smtp must not be called without credentials")
		return nil
	}

	if err := m.SendEmail(context.Background(), "a@b.test", "hi", "<p>x</p>"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSendEmail_UsesRelay(t *testing.T) {
	m := New(Config{Host: "smtp.test", Port: 587, User: "u", Password: "p", From: "noreply@test"}, zerolog.Nop())

	var gotAddr string
	var gotMsg string
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = string(msg)
		if from != "noreply@test" || len(to) != 1 || to[0] != "a@b.test" {
			t.Errorf("unexpected envelope %s -> %v", from, to)
		}
		return nil
	}

	if err := m.SendEmail(context.Background(), "a@b.test", "Hello\r\nBcc: x", "<p>body</p>"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if gotAddr != "smtp.test:587" {
		t.Errorf("unexpected addr %s", gotAddr)
	}
	if strings.Contains(gotMsg, "\r\nBcc:") {
		t.Error("header injection not sanitised")
	}
	if !strings.HasSuffix(gotMsg, "<p>body</p>") {
		t.Error("body missing")
	}
}

func TestSendEmail_WrapsRelayError(t *testing.T) {
	m := New(Config{Host: "smtp.test", Port: 587, User: "u", Password: "p"}, zerolog.Nop())
	boom := errors.New("boom")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	if err := m.SendEmail(context.Background(), "a@b.test", "s", "b"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
