package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/internal/discounts"
	"github.com/velora-labs/velora-backend/internal/products"
	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
	"github.com/velora-labs/velora-backend/pkg/logger"
	"github.com/velora-labs/velora-backend/pkg/pagination"
	"github.com/velora-labs/velora-backend/pkg/razorpay"
	"github.com/velora-labs/velora-backend/pkg/shipping"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PaymentVerifier confirms a payment provider order has been paid.
type PaymentVerifier interface {
	VerifyPaid(ctx context.Context, orderID string) (*razorpay.Order, error)
}

// CarrierGateway books and cancels shipments with the carrier.
type CarrierGateway interface {
	CreateShipment(ctx context.Context, req shipping.CreateShipmentRequest) (string, error)
	CancelShipment(ctx context.Context, carrierOrderID string) error
}

// Notifier sends customer-facing order notifications. Failures are
// logged and never fail the order.
type Notifier interface {
	OrderProcessed(ctx context.Context, customerName, phone, orderNumber, itemSummary string) error
}

// Service defines order placement, lifecycle, and webhook processing.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID, scope Scope) (*Detail, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters, scope Scope) (*List, error)
	Cancel(ctx context.Context, id uuid.UUID, scope Scope) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	UpdateFulfillment(ctx context.Context, id uuid.UUID, target enums.OrderFulfillment) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ProcessCarrierEvent(ctx context.Context, event CarrierEvent) error
}

// ServiceDeps bundles the collaborators an order service needs.
type ServiceDeps struct {
	Repo      Repository
	Products  products.Repository
	Discounts discounts.Repository
	Payments  PaymentVerifier
	Carrier   CarrierGateway
	Notifier  Notifier
	Tx        txRunner
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	products  products.Repository
	discounts discounts.Repository
	payments  PaymentVerifier
	carrier   CarrierGateway
	notifier  Notifier
	tx        txRunner
	logg      *logger.Logger

	now         func() time.Time
	orderNumber func(time.Time) string
}

// NewService builds an order service with the required dependencies.
// Notifier may be nil; notifications are then skipped.
func NewService(deps ServiceDeps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.Products == nil:
		return nil, fmt.Errorf("products repository required")
	case deps.Discounts == nil:
		return nil, fmt.Errorf("discounts repository required")
	case deps.Payments == nil:
		return nil, fmt.Errorf("payment verifier required")
	case deps.Carrier == nil:
		return nil, fmt.Errorf("carrier gateway required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        deps.Repo,
		products:    deps.Products,
		discounts:   deps.Discounts,
		payments:    deps.Payments,
		carrier:     deps.Carrier,
		notifier:    deps.Notifier,
		tx:          deps.Tx,
		logg:        deps.Logger,
		now:         time.Now,
		orderNumber: generateOrderNumber,
	}, nil
}

// generateOrderNumber mints a customer-visible order number. The random
// suffix keeps numbers unguessable; uniqueness is enforced by the DB.
func generateOrderNumber(now time.Time) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("VEL-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix)))
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	for _, item := range input.Items {
		if item.VariantID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item variant id required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	// Payment is confirmed before anything is written. An unpaid or
	// unknown provider order leaves zero rows behind.
	if input.Paid {
		if strings.TrimSpace(input.PaymentOrderID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment order id required for paid orders")
		}
		if _, err := s.payments.VerifyPaid(ctx, input.PaymentOrderID); err != nil {
			return nil, err
		}
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productsRepo := s.products.WithTx(tx)

		address, err := repo.FindAddress(ctx, input.AddressID, input.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipping address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shipping address")
		}

		items, subtotal, err := s.buildItems(ctx, productsRepo, input.Items)
		if err != nil {
			return err
		}

		// The discount is read and validated on the same transaction
		// that records its usage, so the limit check and the increment
		// see one consistent row.
		discountRepo := s.discounts.WithTx(tx)
		discountAmount := decimal.Zero
		var discountCode *string
		if code := strings.TrimSpace(input.DiscountCode); code != "" {
			discount, err := discountRepo.FindByCode(ctx, code)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading discount")
			}
			if err := discounts.CheckApplicable(discount, subtotal, s.now()); err != nil {
				return err
			}
			discountAmount = discountValue(discount, subtotal)
			normalized := discount.Code
			discountCode = &normalized
		}

		total := subtotal.Sub(discountAmount)
		if total.IsNegative() {
			total = decimal.Zero
		}

		now := s.now()
		order = &models.Order{
			OrderNumber:  s.orderNumber(now),
			UserID:       input.UserID,
			AddressID:    input.AddressID,
			Total:        total,
			Status:       enums.OrderStatusPending,
			Fulfillment:  enums.OrderFulfillmentPending,
			Paid:         input.Paid,
			Discount:     discountAmount,
			DiscountCode: discountCode,
			Items:        items,
		}
		if input.Paid {
			paymentOrderID := input.PaymentOrderID
			order.PaymentOrderID = &paymentOrderID
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}

		if discountCode != nil {
			ok, err := discountRepo.IncrementUsage(ctx, *discountCode)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording discount usage")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "discount usage limit reached")
			}
		}

		for _, item := range order.Items {
			ok, err := productsRepo.DecrementVariantStock(ctx, item.ProductVariantID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("insufficient stock for %s (%s/%s)", item.ProductName, item.Color, item.Size))
			}
		}

		// The carrier is called only after every local guard has passed.
		// A rollback past this point can no longer be caused by our own
		// checks, so a failure here never strands a remote booking.
		carrierOrderID, err := s.carrier.CreateShipment(ctx, buildShipmentRequest(order, address))
		if err != nil {
			return err
		}
		order.CarrierOrderID = &carrierOrderID
		if err := repo.UpdateFields(ctx, order.ID, map[string]any{"carrier_order_id": carrierOrderID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing carrier order id")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyOrderPlaced(ctx, order)
	return order, nil
}

// buildItems snapshots each requested variant into an immutable order
// line and sums the effective subtotal.
func (s *service) buildItems(ctx context.Context, repo products.Repository, inputs []CreateItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	subtotal := decimal.Zero
	for _, input := range inputs {
		detail, err := repo.FindVariantDetail(ctx, input.VariantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
			}
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product variant")
		}

		unitPrice := detail.Product.Price.Sub(detail.Product.Discount)
		if unitPrice.IsNegative() {
			unitPrice = decimal.Zero
		}

		item := models.OrderItem{
			ProductID:        detail.Product.ID,
			ProductVariantID: detail.Variant.ID,
			Quantity:         input.Quantity,
			PriceAtOrder:     unitPrice,
			Size:             detail.Variant.Size,
			Color:            detail.Color.Color,
			ProductName:      detail.Product.Name,
		}
		if len(detail.Product.Assets) > 0 {
			image := detail.Product.Assets[0].URL
			item.ProductImage = &image
		}
		items = append(items, item)
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))))
	}
	return items, subtotal, nil
}

func discountValue(discount *models.Discount, subtotal decimal.Decimal) decimal.Decimal {
	switch discount.Type {
	case enums.DiscountTypePercentage:
		return subtotal.Mul(discount.Value).Div(decimal.NewFromInt(100)).Round(2)
	case enums.DiscountTypeFixed:
		return discount.Value
	}
	return decimal.Zero
}

func buildShipmentRequest(order *models.Order, address *models.Address) shipping.CreateShipmentRequest {
	method := "COD"
	if order.Paid {
		method = "prepaid"
	}
	street := address.Street
	if address.AptNumber != nil && *address.AptNumber != "" {
		street = street + ", " + *address.AptNumber
	}
	req := shipping.CreateShipmentRequest{
		OrderNumber:   order.OrderNumber,
		PaymentMethod: method,
		Amount:        order.Total.StringFixed(2),
		FirstName:     address.FirstName,
		LastName:      address.LastName,
		Address:       street,
		Phone:         address.PhoneNumber,
		City:          address.City,
		State:         address.State,
		Country:       address.Country,
		Pincode:       address.ZipCode,
	}
	for _, item := range order.Items {
		req.Items = append(req.Items, shipping.ShipmentItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.PriceAtOrder.StringFixed(2),
			SKU:      item.ProductVariantID.String(),
		})
	}
	return req
}

// notifyOrderPlaced runs after commit. A notification failure is an
// operational event, not an order failure.
func (s *service) notifyOrderPlaced(ctx context.Context, order *models.Order) {
	if s.notifier == nil {
		return
	}
	user, err := s.repo.FindUser(ctx, order.UserID)
	if err != nil {
		s.logg.Error(ctx, "order notification skipped: loading user", err)
		return
	}
	if user.Phone == nil || *user.Phone == "" {
		return
	}
	summary := "your order"
	if len(order.Items) > 0 {
		summary = order.Items[0].ProductName
		if extra := len(order.Items) - 1; extra > 0 {
			summary = fmt.Sprintf("%s and %d more", summary, extra)
		}
	}
	if err := s.notifier.OrderProcessed(ctx, user.Name, *user.Phone, order.OrderNumber, summary); err != nil {
		s.logg.Error(ctx, "order notification failed", err)
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID, scope Scope) (*Detail, error) {
	order, err := s.findScoped(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	detail := &Detail{Order: *order}
	if address, err := s.repo.FindAddress(ctx, order.AddressID, order.UserID); err == nil {
		detail.Address = address
	}
	return detail, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters, scope Scope) (*List, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, params, filters, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return &List{Orders: rows, Pagination: params.MetaFor(total)}, nil
}

// findScoped loads an order and hides it from callers who do not own
// it, unless the caller is an admin.
func (s *service) findScoped(ctx context.Context, id uuid.UUID, scope Scope) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if !scope.Admin && order.UserID != scope.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, scope Scope) (*models.Order, error) {
	order, err := s.findScoped(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	switch order.Fulfillment {
	case enums.OrderFulfillmentCancelled:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
	case enums.OrderFulfillmentDelivered:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivered orders cannot be cancelled")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// Carrier cancellation must succeed before any local state moves.
		if order.CarrierOrderID != nil && *order.CarrierOrderID != "" {
			if err := s.carrier.CancelShipment(ctx, *order.CarrierOrderID); err != nil {
				return err
			}
		}
		repo := s.repo.WithTx(tx)
		updates := map[string]any{
			"status":      enums.OrderStatusCancelled,
			"fulfillment": enums.OrderFulfillmentCancelled,
		}
		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
		}
		entry := &models.TimelineEntry{
			OrderID:   order.ID,
			Label:     "Cancelled",
			Note:      "Order cancelled",
			Severity:  enums.TimelineSeverityError,
			Timestamp: s.now(),
		}
		if err := repo.AppendTimeline(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording cancellation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, order.ID)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.findScoped(ctx, id, Scope{Admin: true})
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if err := s.repo.UpdateFields(ctx, order.ID, map[string]any{"status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return s.repo.FindByID(ctx, order.ID)
}

func (s *service) UpdateFulfillment(ctx context.Context, id uuid.UUID, target enums.OrderFulfillment) (*models.Order, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment state")
	}
	order, err := s.findScoped(ctx, id, Scope{Admin: true})
	if err != nil {
		return nil, err
	}
	if order.Fulfillment == target {
		return order, nil
	}
	if !canTransition(order.Fulfillment, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move fulfillment from %s to %s", order.Fulfillment, target))
	}
	updates := map[string]any{"fulfillment": target}
	if target == enums.OrderFulfillmentDelivered {
		updates["delivered_at"] = s.now()
	}
	if err := s.repo.UpdateFields(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating fulfillment")
	}
	return s.repo.FindByID(ctx, order.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findScoped(ctx, id, Scope{Admin: true}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
	}
	return nil
}

// ProcessCarrierEvent handles one webhook delivery. Every event is
// stored verbatim; recognized statuses additionally append a timeline
// entry and may advance fulfillment through the shared transition table.
func (s *service) ProcessCarrierEvent(ctx context.Context, event CarrierEvent) error {
	order, err := s.repo.FindByOrderNumber(ctx, strings.TrimSpace(event.OrderNumber))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found for carrier event")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order for carrier event")
	}

	eventTime := s.now()
	var parsedTime *time.Time
	if event.EventTime != "" {
		if parsed, err := parseCarrierTime(event.EventTime); err == nil {
			eventTime = parsed
			parsedTime = &parsed
		}
	}

	mapping, known := carrierStatusMap[strings.ToLower(strings.TrimSpace(event.Status))]
	if !known {
		s.logg.Warn(s.logg.WithField(ctx, "carrier_status", event.Status), "unrecognized carrier status stored without state change")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if order.AWB == nil || *order.AWB == "" {
			if event.AWBNumber != "" {
				if err := repo.UpdateFields(ctx, order.ID, map[string]any{"awb": event.AWBNumber}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "backfilling awb")
				}
			}
		}

		record := &models.ShipmentEvent{
			OrderID:     order.ID,
			AWBNumber:   event.AWBNumber,
			Status:      event.Status,
			StatusCode:  event.StatusCode,
			Message:     event.Message,
			EventTime:   parsedTime,
			Location:    event.Location,
			CourierName: event.CourierName,
			PaymentType: event.PaymentType,
			EDD:         event.EDD,
			RawPayload:  event.Raw,
		}
		if err := repo.CreateShipmentEvent(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing carrier event")
		}
		if !known {
			return nil
		}

		entry := &models.TimelineEntry{
			OrderID:   order.ID,
			Label:     mapping.Label,
			Note:      event.Message,
			Severity:  mapping.Severity,
			Timestamp: eventTime,
		}
		if err := repo.AppendTimeline(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending timeline entry")
		}

		updates := map[string]any{
			"delivery_status": strings.ToUpper(event.Status),
		}
		if event.EDD != "" {
			updates["etd"] = event.EDD
		}
		if target := mapping.Fulfillment; target != "" && target != order.Fulfillment {
			if canTransition(order.Fulfillment, target) {
				updates["fulfillment"] = target
				if target == enums.OrderFulfillmentDelivered {
					updates["delivered_at"] = eventTime
				}
			} else {
				s.logg.Warn(ctx, "carrier event ignored for fulfillment: illegal transition")
			}
		}
		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying carrier event")
		}
		return nil
	})
}

// carrier timestamps arrive in a handful of shapes.
var carrierTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02-01-2006",
}

func parseCarrierTime(value string) (time.Time, error) {
	for _, layout := range carrierTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable carrier timestamp %q", value)
}
