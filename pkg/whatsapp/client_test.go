package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/velora-labs/velora-backend/pkg/config"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
)

func testConfig() config.WhatsAppConfig {
	return config.WhatsAppConfig{
		Token:         "wa-token",
		PhoneNumberID: "1234567890",
		BaseURL:       "http://graph.test/v19.0",
		Timeout:       5 * time.Second,
	}
}

func TestOrderProcessedSendsTemplateMessage(t *testing.T) {
	const expectedURL = "http://graph.test/v19.0/1234567890/messages"

	var capturedURL string
	var capturedAuth string
	var payload map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"messages":[{"id":"wamid.1"}]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.OrderProcessed(context.Background(), "Asha", "9000000001", "# VL-1001", "Linen Shirt, Tote Bag"); err != nil {
		t.Fatalf("order processed: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "Bearer wa-token" {
		t.Fatalf("bearer token missing, got %q", capturedAuth)
	}
	if payload["to"] != "9000000001" {
		t.Fatalf("unexpected recipient %v", payload["to"])
	}
	template, ok := payload["template"].(map[string]any)
	if !ok || template["name"] != "order_processed" {
		t.Fatalf("unexpected template payload %v", payload["template"])
	}
}

func TestSendFailureSurfacesDependencyError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"bad token"}}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.OrderProcessed(context.Background(), "Asha", "9000000001", "# VL-1001", "Tote Bag")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(config.WhatsAppConfig{}); err == nil {
		t.Fatal("expected token error")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
