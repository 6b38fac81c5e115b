package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestSendSMS_PostsForm(t *testing.T) {
	var gotPath, gotTo, gotBody, gotUser string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		_ = r.ParseForm()
		gotTo = r.PostForm.Get("To")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewTwilioSender(Config{AccountSID: "AC1", AuthToken: "tok", From: "+100"}, zerolog.Nop())
	s.baseURL = srv.URL

	if err := s.SendSMS(context.Background(), "+5511999", "hello"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if gotPath != "/Accounts/AC1/Messages.json" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotUser != "AC1" || gotTo != "+5511999" || gotBody != "hello" {
		t.Errorf("unexpected request user=%s to=%s body=%s", gotUser, gotTo, gotBody)
	}
}

func TestSendSMS_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad number", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewTwilioSender(Config{AccountSID: "AC1", AuthToken: "tok"}, zerolog.Nop())
	s.baseURL = srv.URL

	if err := s.SendSMS(context.Background(), "x", "y"); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestSendSMS_SimulatedWithoutCredentials(t *testing.T) {
	s := NewTwilioSender(Config{}, zerolog.Nop())
	s.baseURL = "http://127.0.0.1:1"

	if err := s.SendSMS(context.Background(), "x", "y"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
