package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/velora-labs/velora-backend/pkg/config"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
)

const (
	defaultBaseURL          = "https://graph.facebook.com/v19.0"
	responseBodyLimit int64 = 4096

	templateOrderProcessed = "order_processed"
)

var errTokenRequired = errors.New("whatsapp token and phone number id are required")

// Client sends transactional WhatsApp template messages through the
// Meta Graph API. All sends are best-effort at the call site.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Graph API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the WhatsApp client from configuration.
func NewClient(cfg config.WhatsAppConfig, opts ...Option) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	phoneNumberID := strings.TrimSpace(cfg.PhoneNumberID)
	if token == "" || phoneNumberID == "" {
		return nil, errTokenRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: timeout},
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// OrderProcessed notifies the customer their order was accepted.
func (c *Client) OrderProcessed(ctx context.Context, customerName, phone, orderNumber, itemSummary string) error {
	return c.sendTemplate(ctx, phone, templateOrderProcessed, []string{customerName, orderNumber, itemSummary})
}

func (c *Client) sendTemplate(ctx context.Context, phone, template string, bodyParams []string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "whatsapp client not configured")
	}
	trimmedPhone := strings.TrimSpace(phone)
	if trimmedPhone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient phone number is required")
	}

	params := make([]map[string]string, 0, len(bodyParams))
	for _, p := range bodyParams {
		params = append(params, map[string]string{"type": "text", "text": p})
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                trimmedPhone,
		"type":              "template",
		"template": map[string]any{
			"name":     template,
			"language": map[string]string{"code": "en"},
			"components": []map[string]any{
				{"type": "body", "parameters": params},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal whatsapp payload")
	}

	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.baseURL, "/"), c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build whatsapp request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute whatsapp request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "whatsapp send failed")
	}

	return nil
}
