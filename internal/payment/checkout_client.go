package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-cinema-ticketing/config"
	"go-cinema-ticketing/pkg/logger"

	"go.uber.org/zap"
)

// sessionExpiry bounds how long a hold stays open; the provider releases
// the funds itself after this window.
const sessionExpiry = 30 * time.Minute

const (
	paymentStatusPaid           = "paid"
	intentStatusRequiresCapture = "requires_capture"
	intentStatusSucceeded       = "succeeded"
	intentStatusCanceled        = "canceled"
)

// CheckoutClient talks to the payment provider's REST API over plain HTTP.
type CheckoutClient struct {
	config config.CheckoutConfig
	client *http.Client
}

func NewCheckoutClient(cfg config.CheckoutConfig) *CheckoutClient {
	return &CheckoutClient{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type sessionLineItem struct {
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

type createSessionRequest struct {
	Mode          string            `json:"mode"`
	CaptureMethod string            `json:"capture_method"`
	CustomerEmail string            `json:"customer_email"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	ExpiresAt     int64             `json:"expires_at"`
	LineItems     []sessionLineItem `json:"line_items"`
}

type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
}

type paymentIntentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type providerError struct {
	Message string `json:"message"`
}

func (e *providerError) Error() string {
	return fmt.Sprintf("checkout provider error: %s", e.Message)
}

// OpenSession creates a manual-capture checkout session: the provider
// authorizes the total but the charge stays pending until Reconcile.
func (c *CheckoutClient) OpenSession(ctx context.Context, items []LineItem, customerEmail string) (*Session, error) {
	lineItems := make([]sessionLineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, sessionLineItem{
			Name:       item.Name,
			Currency:   "eur",
			UnitAmount: item.UnitAmount,
			Quantity:   item.Quantity,
		})
	}

	req := createSessionRequest{
		Mode:          "payment",
		CaptureMethod: "manual",
		CustomerEmail: customerEmail,
		SuccessURL:    c.config.SuccessURL,
		CancelURL:     c.config.CancelURL,
		ExpiresAt:     time.Now().Add(sessionExpiry).Unix(),
		LineItems:     lineItems,
	}

	var session sessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &session); err != nil {
		return nil, err
	}

	return &Session{ID: session.ID, URL: session.URL}, nil
}

// Reconcile settles a session. The decision table mirrors the provider's
// intent states: cancel releases the hold, an already-paid session or a
// no-longer-capturable intent reports settled without touching the charge.
func (c *CheckoutClient) Reconcile(ctx context.Context, sessionID string, shouldCapture bool) (bool, error) {
	session, err := c.retrieveSession(ctx, sessionID)
	if err != nil {
		return false, err
	}

	if !shouldCapture {
		if err := c.cancelIntent(ctx, session.PaymentIntent); err != nil {
			return false, err
		}
		return false, nil
	}

	if session.PaymentStatus == paymentStatusPaid {
		return true, nil
	}

	intent, err := c.retrieveIntent(ctx, session.PaymentIntent)
	if err != nil {
		return false, err
	}

	if intent.Status != intentStatusRequiresCapture {
		// Already captured or cancelled out of band; never capture twice.
		logger.WithComponent("payment").Info("intent not capturable, treating as settled",
			zap.String("session_id", sessionID), zap.String("intent_status", intent.Status))
		return true, nil
	}

	return c.captureIntent(ctx, intent.ID)
}

func (c *CheckoutClient) retrieveSession(ctx context.Context, sessionID string) (*sessionResponse, error) {
	var session sessionResponse
	path := fmt.Sprintf("/v1/checkout/sessions/%s", sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *CheckoutClient) retrieveIntent(ctx context.Context, intentID string) (*paymentIntentResponse, error) {
	var intent paymentIntentResponse
	path := fmt.Sprintf("/v1/payment_intents/%s", intentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *CheckoutClient) captureIntent(ctx context.Context, intentID string) (bool, error) {
	var intent paymentIntentResponse
	path := fmt.Sprintf("/v1/payment_intents/%s/capture", intentID)
	if err := c.do(ctx, http.MethodPost, path, nil, &intent); err != nil {
		return false, err
	}
	return intent.Status == intentStatusSucceeded, nil
}

func (c *CheckoutClient) cancelIntent(ctx context.Context, intentID string) error {
	var intent paymentIntentResponse
	path := fmt.Sprintf("/v1/payment_intents/%s/cancel", intentID)
	if err := c.do(ctx, http.MethodPost, path, nil, &intent); err != nil {
		return err
	}
	if intent.Status != intentStatusCanceled {
		return fmt.Errorf("cancel payment intent %s: unexpected status %q", intentID, intent.Status)
	}
	return nil
}

func (c *CheckoutClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var perr providerError
		if err := json.Unmarshal(data, &perr); err == nil && perr.Message != "" {
			return &perr
		}
		return fmt.Errorf("checkout provider returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
