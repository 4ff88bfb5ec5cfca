package orders

import (
	"github.com/google/uuid"

	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/pagination"
	"github.com/velora-labs/velora-backend/pkg/types"
)

// CreateItemInput is one requested variant line.
type CreateItemInput struct {
	VariantID uuid.UUID
	Quantity  int
}

// CreateInput carries everything needed to place an order.
type CreateInput struct {
	UserID         uuid.UUID
	AddressID      uuid.UUID
	Items          []CreateItemInput
	Paid           bool
	PaymentOrderID string
	DiscountCode   string
}

// Scope restricts reads and cancels to the calling user unless admin.
type Scope struct {
	UserID uuid.UUID
	Admin  bool
}

// ListFilters narrows order listings.
type ListFilters struct {
	Search string
}

// List bundles a page of orders with its pagination meta.
type List struct {
	Orders     []models.Order  `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}

// Detail is a single order with its shipping address resolved.
type Detail struct {
	Order   models.Order    `json:"order"`
	Address *models.Address `json:"address,omitempty"`
}

// CarrierEvent is one parsed webhook delivery from the carrier. Raw
// holds the payload verbatim for auditing.
type CarrierEvent struct {
	OrderNumber string        `json:"order_number"`
	AWBNumber   string        `json:"awb_number"`
	Status      string        `json:"status"`
	StatusCode  string        `json:"status_code"`
	Message     string        `json:"message"`
	EventTime   string        `json:"event_time"`
	Location    string        `json:"location"`
	CourierName string        `json:"courier_name"`
	PaymentType string        `json:"payment_type"`
	EDD         string        `json:"edd"`
	Raw         types.JSONMap `json:"-"`
}
