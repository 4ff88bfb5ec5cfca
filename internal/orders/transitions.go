package orders

import "github.com/velora-labs/velora-backend/pkg/enums"

// fulfillmentTransitions is the single allowed-transition table. Both
// the admin fulfillment endpoint and the carrier webhook mapper consult
// it, so the two paths can never disagree about what moves are legal.
var fulfillmentTransitions = map[enums.OrderFulfillment][]enums.OrderFulfillment{
	enums.OrderFulfillmentPending: {
		enums.OrderFulfillmentShipped,
		enums.OrderFulfillmentCancelled,
		enums.OrderFulfillmentReturned,
	},
	enums.OrderFulfillmentShipped: {
		enums.OrderFulfillmentDelivered,
		enums.OrderFulfillmentReturned,
		enums.OrderFulfillmentCancelled,
	},
	enums.OrderFulfillmentDelivered: {},
	enums.OrderFulfillmentCancelled: {},
	enums.OrderFulfillmentReturned:  {},
}

// canTransition reports whether from may move to to. Same-state moves
// are not transitions; callers treat them as no-ops before asking.
func canTransition(from, to enums.OrderFulfillment) bool {
	for _, allowed := range fulfillmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type carrierStatusMapping struct {
	Label       string
	Severity    enums.TimelineSeverity
	Fulfillment enums.OrderFulfillment // empty when the status carries no state change
}

// carrierStatusMap translates NimbusPost tracking statuses into
// timeline entries and, for some, fulfillment moves. Statuses missing
// from this map are stored and logged but change nothing.
var carrierStatusMap = map[string]carrierStatusMapping{
	"booked":           {Label: "Processing", Severity: enums.TimelineSeverityInfo},
	"pending pickup":   {Label: "Processing", Severity: enums.TimelineSeverityInfo},
	"in transit":       {Label: "Shipped", Severity: enums.TimelineSeverityInfo, Fulfillment: enums.OrderFulfillmentShipped},
	"exception":        {Label: "Delivery Issue", Severity: enums.TimelineSeverityWarning},
	"out for delivery": {Label: "Out for Delivery", Severity: enums.TimelineSeverityInfo},
	"delivered":        {Label: "Delivered", Severity: enums.TimelineSeveritySuccess, Fulfillment: enums.OrderFulfillmentDelivered},
	"rto in transit":   {Label: "RTO In Transit", Severity: enums.TimelineSeverityWarning, Fulfillment: enums.OrderFulfillmentReturned},
	"rto delivered":    {Label: "RTO Delivered", Severity: enums.TimelineSeverityError, Fulfillment: enums.OrderFulfillmentReturned},
	"cancelled":        {Label: "Cancelled", Severity: enums.TimelineSeverityError, Fulfillment: enums.OrderFulfillmentCancelled},
}
