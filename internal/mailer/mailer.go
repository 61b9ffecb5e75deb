package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-cinema-ticketing/config"
)

// Mailer sends templated HTML mail. Delivery is best effort everywhere it
// is used; callers log failures and move on.
type Mailer interface {
	Send(ctx context.Context, to string, subject string, html string) error
}

// HTTPMailer posts to a transactional-mail HTTP API.
type HTTPMailer struct {
	config config.MailConfig
	client *http.Client
}

func NewHTTPMailer(cfg config.MailConfig) *HTTPMailer {
	return &HTTPMailer{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *HTTPMailer) fromField() string {
	if m.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail)
	}
	return m.config.FromEmail
}

func (m *HTTPMailer) Send(ctx context.Context, to string, subject string, html string) error {
	payload, err := json.Marshal(sendMailRequest{
		From:    m.fromField(),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+"/emails", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail provider returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
