package enums

import "fmt"

// OrderFulfillment is the shipment lifecycle state of an order, distinct
// from the business OrderStatus.
type OrderFulfillment string

const (
	OrderFulfillmentPending   OrderFulfillment = "PENDING"
	OrderFulfillmentShipped   OrderFulfillment = "SHIPPED"
	OrderFulfillmentDelivered OrderFulfillment = "DELIVERED"
	OrderFulfillmentReturned  OrderFulfillment = "RETURNED"
	OrderFulfillmentCancelled OrderFulfillment = "CANCELLED"
)

var validOrderFulfillments = []OrderFulfillment{
	OrderFulfillmentPending,
	OrderFulfillmentShipped,
	OrderFulfillmentDelivered,
	OrderFulfillmentReturned,
	OrderFulfillmentCancelled,
}

// String implements fmt.Stringer.
func (o OrderFulfillment) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderFulfillment.
func (o OrderFulfillment) IsValid() bool {
	for _, candidate := range validOrderFulfillments {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further fulfillment transitions are allowed.
func (o OrderFulfillment) IsTerminal() bool {
	switch o {
	case OrderFulfillmentDelivered, OrderFulfillmentReturned, OrderFulfillmentCancelled:
		return true
	}
	return false
}

// ParseOrderFulfillment converts raw input into an OrderFulfillment.
func ParseOrderFulfillment(value string) (OrderFulfillment, error) {
	for _, candidate := range validOrderFulfillments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order fulfillment %q", value)
}
