package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

type Config struct {
	AccountSID string
	AuthToken  string
	From       string
}

func (c Config) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// TwilioSender posts messages to the Twilio REST API. Without credentials
// sends are logged and reported as delivered.
type TwilioSender struct {
	cfg     Config
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewTwilioSender(cfg Config, log zerolog.Logger) *TwilioSender {
	return &TwilioSender{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("component", "sms").Logger(),
	}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if !s.cfg.Enabled() {
		s.log.Info().Str("to", to).Msg("sms simulated")
		return nil
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send sms: twilio status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	s.log.Debug().Str("to", to).Msg("sms sent")
	return nil
}
