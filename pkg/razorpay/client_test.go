package razorpay

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/velora-labs/velora-backend/pkg/config"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
)

func testConfig() config.RazorpayConfig {
	return config.RazorpayConfig{
		KeyID:     "key_test",
		KeySecret: "secret_test",
		BaseURL:   "http://razorpay.test/v1",
		Timeout:   5 * time.Second,
	}
}

func TestFetchOrderSendsBasicAuth(t *testing.T) {
	const expectedURL = "http://razorpay.test/v1/orders/order_abc"
	respBody := `{"id":"order_abc","amount":129900,"amount_paid":129900,"currency":"INR","status":"paid"}`

	var capturedURL string
	var capturedUser, capturedPass string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedUser, capturedPass, _ = req.BasicAuth()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	order, err := client.FetchOrder(context.Background(), "order_abc")
	if err != nil {
		t.Fatalf("fetch order: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedUser != "key_test" || capturedPass != "secret_test" {
		t.Fatalf("basic auth not forwarded, got %s:%s", capturedUser, capturedPass)
	}
	if order.ID != "order_abc" || !order.Paid() {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestVerifyPaidRejectsUnpaidOrder(t *testing.T) {
	respBody := `{"id":"order_abc","amount":129900,"amount_paid":0,"currency":"INR","status":"created"}`

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.VerifyPaid(context.Background(), "order_abc")
	if err == nil {
		t.Fatal("expected payment-not-confirmed error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePaymentNotConfirmed {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFetchOrderMapsProviderFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader(`{"error":"upstream"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.FetchOrder(context.Background(), "order_abc")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(config.RazorpayConfig{}); err == nil {
		t.Fatal("expected credentials error")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
