package shipping

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

func testConfig() config.ShippingConfig {
	return config.ShippingConfig{
		APIKey:  "np-test-key",
		BaseURL: "http://carrier.test/api",
		Timeout: 5 * time.Second,
	}
}

func TestCreateShipmentSubmitsMultipartForm(t *testing.T) {
	const expectedURL = "http://carrier.test/api/orders/create"

	var capturedURL string
	var capturedKey string
	var capturedForm map[string][]string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedKey = req.Header.Get("NP-API-KEY")
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		capturedForm = req.MultipartForm.Value
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":true,"data":"98765"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	shipmentID, err := client.CreateShipment(context.Background(), CreateShipmentRequest{
		OrderNumber:   "VL-1001",
		PaymentMethod: "prepaid",
		Amount:        "1299.00",
		FirstName:     "Asha",
		LastName:      "Rao",
		Address:       "12B Lakeview Rd",
		Phone:         "9000000001",
		City:          "Pune",
		State:         "MH",
		Country:       "India",
		Pincode:       "411001",
		Items: []ShipmentItem{
			{Name: "Linen Shirt M Blue", Quantity: 2, Price: "649.50", SKU: "VL-1001"},
		},
	})
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if shipmentID != "98765" {
		t.Fatalf("unexpected shipment id %q", shipmentID)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedKey != "np-test-key" {
		t.Fatalf("api key header missing, got %q", capturedKey)
	}
	if got := capturedForm["order_number"]; len(got) != 1 || got[0] != "VL-1001" {
		t.Fatalf("order_number not submitted: %v", capturedForm)
	}
	if got := capturedForm["products[0][qty]"]; len(got) != 1 || got[0] != "2" {
		t.Fatalf("item quantity not submitted: %v", capturedForm)
	}
}

func TestCreateShipmentObjectPayload(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":true,"data":{"order_id":445566}}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	shipmentID, err := client.CreateShipment(context.Background(), minimalRequest())
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if shipmentID != "445566" {
		t.Fatalf("unexpected shipment id %q", shipmentID)
	}
}

func TestCreateShipmentCarrierFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader(`{"status":false,"message":"invalid pincode"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreateShipment(context.Background(), minimalRequest())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCancelShipment(t *testing.T) {
	const expectedURL = "http://carrier.test/api/orders/cancel"

	var capturedURL string
	var capturedID string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if vals := req.MultipartForm.Value["id"]; len(vals) == 1 {
			capturedID = vals[0]
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":true}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.CancelShipment(context.Background(), "98765"); err != nil {
		t.Fatalf("cancel shipment: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedID != "98765" {
		t.Fatalf("carrier order id not submitted, got %q", capturedID)
	}
}

func TestCancelShipmentFailureSurfacesError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader(`{"status":false}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.CancelShipment(context.Background(), "98765")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func minimalRequest() CreateShipmentRequest {
	return CreateShipmentRequest{
		OrderNumber:   "VL-1002",
		PaymentMethod: "COD",
		Amount:        "500.00",
		FirstName:     "Dev",
		City:          "Pune",
		State:         "MH",
		Country:       "India",
		Pincode:       "411001",
		Items:         []ShipmentItem{{Name: "Tote Bag", Quantity: 1, Price: "500.00", SKU: "VL-1002"}},
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
