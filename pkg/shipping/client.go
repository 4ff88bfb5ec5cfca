package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/velora-labs/velora-backend/pkg/config"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
)

const (
	defaultBaseURL          = "https://ship.nimbuspost.com/api"
	apiKeyHeader            = "NP-API-KEY"
	responseBodyLimit int64 = 4096
)

var errAPIKeyRequired = errors.New("carrier api key is required")

// Client wraps the NimbusPost shipment APIs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
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

// WithBaseURL overrides the configured carrier base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the carrier client from configuration.
func NewClient(cfg config.ShippingConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
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

// ShipmentItem is one product line submitted to the carrier.
type ShipmentItem struct {
	Name     string
	Quantity int
	Price    string
	SKU      string
}

// CreateShipmentRequest carries everything the carrier needs to book a parcel.
type CreateShipmentRequest struct {
	OrderNumber   string
	PaymentMethod string // "prepaid" or "COD"
	Amount        string
	FirstName     string
	LastName      string
	Address       string
	Phone         string
	City          string
	State         string
	Country       string
	Pincode       string
	Items         []ShipmentItem
}

// CreateShipment books the shipment and returns the carrier order id.
func (c *Client) CreateShipment(ctx context.Context, req CreateShipmentRequest) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "carrier client not configured")
	}
	if strings.TrimSpace(req.OrderNumber) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if len(req.Items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shipment needs at least one item")
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := map[string]string{
		"order_number":   req.OrderNumber,
		"payment_method": req.PaymentMethod,
		"amount":         req.Amount,
		"fname":          req.FirstName,
		"lname":          req.LastName,
		"address":        req.Address,
		"phone":          req.Phone,
		"city":           req.City,
		"state":          req.State,
		"country":        req.Country,
		"pincode":        req.Pincode,
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode shipment form")
		}
	}
	for i, item := range req.Items {
		itemFields := map[string]string{
			fmt.Sprintf("products[%d][name]", i):  item.Name,
			fmt.Sprintf("products[%d][qty]", i):   fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("products[%d][price]", i): item.Price,
			fmt.Sprintf("products[%d][sku]", i):   item.SKU,
		}
		for key, value := range itemFields {
			if err := form.WriteField(key, value); err != nil {
				return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode shipment items")
			}
		}
	}
	if err := form.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize shipment form")
	}

	endpoint := c.buildURL("orders/create")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shipment request")
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute shipment request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "shipment booking failed")
	}

	var apiResp struct {
		Status bool            `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shipment response")
	}

	shipmentID := decodeShipmentID(apiResp.Data)
	if shipmentID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "carrier returned no shipment id")
	}

	return shipmentID, nil
}

// CancelShipment cancels a previously booked shipment by carrier order id.
func (c *Client) CancelShipment(ctx context.Context, carrierOrderID string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "carrier client not configured")
	}
	trimmed := strings.TrimSpace(carrierOrderID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "carrier order id is required")
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	if err := form.WriteField("id", trimmed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode cancel form")
	}
	if err := form.Close(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize cancel form")
	}

	endpoint := c.buildURL("orders/cancel")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build cancel request")
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute cancel request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "shipment cancel failed")
	}

	return nil
}

// decodeShipmentID tolerates the carrier returning either a bare id or an
// object holding one.
func decodeShipmentID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil && asNumber != 0 {
		return fmt.Sprintf("%d", asNumber)
	}

	var asObject struct {
		ID      json.Number `json:"id"`
		OrderID json.Number `json:"order_id"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		if s := asObject.ID.String(); s != "" && s != "0" {
			return s
		}
		if s := asObject.OrderID.String(); s != "" && s != "0" {
			return s
		}
	}

	return ""
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
