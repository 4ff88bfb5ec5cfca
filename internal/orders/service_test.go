package orders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'USER',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  street TEXT NOT NULL,
  apt_number TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  country TEXT NOT NULL,
  zip_code TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  discount TEXT NOT NULL DEFAULT '0',
  category_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'DRAFT',
  material TEXT,
  tags TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_assets (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'IMAGE',
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_colors (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  color TEXT NOT NULL,
  images TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  color_id TEXT NOT NULL,
  size TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  address_id TEXT NOT NULL,
  total TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  fulfillment TEXT NOT NULL DEFAULT 'PENDING',
  paid INTEGER NOT NULL DEFAULT 0,
  payment_order_id TEXT,
  discount TEXT NOT NULL DEFAULT '0',
  discount_code TEXT,
  awb TEXT,
  delivery_status TEXT,
  etd TEXT,
  carrier_order_id TEXT,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  price_at_order TEXT NOT NULL,
  size TEXT NOT NULL,
  color TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_image TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS timeline_entries (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  label TEXT NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  severity TEXT NOT NULL DEFAULT 'INFO',
  timestamp DATETIME NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS shipment_events (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  awb_number TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  status_code TEXT NOT NULL DEFAULT '',
  message TEXT NOT NULL DEFAULT '',
  event_time DATETIME,
  location TEXT NOT NULL DEFAULT '',
  courier_name TEXT NOT NULL DEFAULT '',
  payment_type TEXT NOT NULL DEFAULT '',
  edd TEXT NOT NULL DEFAULT '',
  raw_payload TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS discounts (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL,
  value TEXT NOT NULL,
  min_purchase TEXT NOT NULL DEFAULT '0',
  usage_count INTEGER NOT NULL DEFAULT 0,
  usage_limit INTEGER,
  start_date DATETIME NOT NULL,
  end_date DATETIME,
  status TEXT NOT NULL DEFAULT 'ACTIVE',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type stubPayments struct {
	err   error
	calls []string
}

func (s *stubPayments) VerifyPaid(_ context.Context, orderID string) (*razorpay.Order, error) {
	s.calls = append(s.calls, orderID)
	if s.err != nil {
		return nil, s.err
	}
	return &razorpay.Order{ID: orderID, Status: "paid"}, nil
}

type stubCarrier struct {
	createErr  error
	cancelErr  error
	created    []shipping.CreateShipmentRequest
	cancelled  []string
	shipmentID string
}

func (s *stubCarrier) CreateShipment(_ context.Context, req shipping.CreateShipmentRequest) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, req)
	if s.shipmentID == "" {
		return "carrier-1", nil
	}
	return s.shipmentID, nil
}

func (s *stubCarrier) CancelShipment(_ context.Context, carrierOrderID string) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.cancelled = append(s.cancelled, carrierOrderID)
	return nil
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) OrderProcessed(context.Context, string, string, string, string) error {
	s.calls++
	return s.err
}

type orderFixture struct {
	db        *gorm.DB
	svc       Service
	payments  *stubPayments
	carrier   *stubCarrier
	notifier  *stubNotifier
	user      *models.User
	address   *models.Address
	variantID uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := setupOrdersTestDB(t)

	payments := &stubPayments{}
	carrier := &stubCarrier{}
	notifier := &stubNotifier{}

	svc, err := NewService(ServiceDeps{
		Repo:      NewRepository(db),
		Products:  products.NewRepository(db),
		Discounts: discounts.NewRepository(db),
		Payments:  payments,
		Carrier:   carrier,
		Notifier:  notifier,
		Tx:        &testTxRunner{db: db},
		Logger:    logger.New(logger.Options{ServiceName: "orders-test", Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	require.NoError(t, err)

	phone := "+919876543210"
	user := &models.User{Name: "Asha Rao", Email: "asha@example.com", PasswordHash: "x", Phone: &phone}
	require.NoError(t, db.Create(user).Error)

	address := &models.Address{
		UserID:      user.ID,
		FirstName:   "Asha",
		LastName:    "Rao",
		Street:      "14 Lake View Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		Country:     "India",
		ZipCode:     "560001",
		PhoneNumber: phone,
	}
	require.NoError(t, db.Create(address).Error)

	product := &models.Product{
		Name:       "Linen Overshirt",
		Price:      decimal.NewFromInt(100),
		CategoryID: uuid.New(),
		Status:     enums.ProductStatusPublished,
		Assets:     []models.ProductAsset{{URL: "https://cdn.example.com/overshirt.jpg"}},
		Colors: []models.ProductColor{
			{Color: "Sand", Variants: []models.ProductVariant{{Size: "M", Stock: 10}}},
		},
	}
	require.NoError(t, db.Create(product).Error)

	return &orderFixture{
		db:        db,
		svc:       svc,
		payments:  payments,
		carrier:   carrier,
		notifier:  notifier,
		user:      user,
		address:   address,
		variantID: product.Colors[0].Variants[0].ID,
	}
}

func (f *orderFixture) createInput(qty int) CreateInput {
	return CreateInput{
		UserID:    f.user.ID,
		AddressID: f.address.ID,
		Items:     []CreateItemInput{{VariantID: f.variantID, Quantity: qty}},
	}
}

func (f *orderFixture) stock(t *testing.T) int {
	t.Helper()
	var variant models.ProductVariant
	require.NoError(t, f.db.Where("id = ?", f.variantID).First(&variant).Error)
	return variant.Stock
}

func (f *orderFixture) orderCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	return count
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func TestCreatePlacesOrderAndDecrementsStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(3))
	require.NoError(t, err)
	require.NotEmpty(t, order.OrderNumber)
	require.Equal(t, enums.OrderStatusPending, order.Status)
	require.Equal(t, enums.OrderFulfillmentPending, order.Fulfillment)
	require.True(t, order.Total.Equal(decimal.NewFromInt(300)))
	require.Len(t, order.Items, 1)
	require.Equal(t, "Linen Overshirt", order.Items[0].ProductName)
	require.Equal(t, "Sand", order.Items[0].Color)
	require.Equal(t, "M", order.Items[0].Size)
	require.NotNil(t, order.Items[0].ProductImage)

	require.Equal(t, 7, f.stock(t), "stock must drop by the ordered quantity")

	require.Len(t, f.carrier.created, 1)
	booked := f.carrier.created[0]
	require.Equal(t, order.OrderNumber, booked.OrderNumber)
	require.Equal(t, "COD", booked.PaymentMethod)
	require.Equal(t, "300.00", booked.Amount)
	require.Len(t, booked.Items, 1)

	var stored models.Order
	require.NoError(t, f.db.Where("id = ?", order.ID).First(&stored).Error)
	require.NotNil(t, stored.CarrierOrderID)
	require.Equal(t, "carrier-1", *stored.CarrierOrderID)

	require.Equal(t, 1, f.notifier.calls)
}

func TestCreatePaidVerifiesPaymentFirst(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	input := f.createInput(1)
	input.Paid = true
	input.PaymentOrderID = "order_rzp_123"

	order, err := f.svc.Create(ctx, input)
	require.NoError(t, err)
	require.True(t, order.Paid)
	require.NotNil(t, order.PaymentOrderID)
	require.Equal(t, []string{"order_rzp_123"}, f.payments.calls)
	require.Equal(t, "prepaid", f.carrier.created[0].PaymentMethod)
}

func TestCreateUnconfirmedPaymentWritesNothing(t *testing.T) {
	f := newOrderFixture(t)
	f.payments.err = pkgerrors.New(pkgerrors.CodePaymentNotConfirmed, "payment order is not paid")
	ctx := context.Background()

	input := f.createInput(2)
	input.Paid = true
	input.PaymentOrderID = "order_rzp_unpaid"

	_, err := f.svc.Create(ctx, input)
	requireCode(t, err, pkgerrors.CodePaymentNotConfirmed)

	require.Zero(t, f.orderCount(t), "failed payment verification must write nothing")
	require.Equal(t, 10, f.stock(t))
	require.Empty(t, f.carrier.created)
	require.Zero(t, f.notifier.calls)
}

func TestCreateCarrierFailureRollsBackOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.carrier.createErr = pkgerrors.New(pkgerrors.CodeDependency, "carrier unavailable")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.createInput(2))
	requireCode(t, err, pkgerrors.CodeDependency)

	require.Zero(t, f.orderCount(t), "carrier failure must leave no orphan order")
	require.Equal(t, 10, f.stock(t))
}

func TestCreateMissingAddressRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	input := f.createInput(1)
	input.AddressID = uuid.New()

	_, err := f.svc.Create(ctx, input)
	requireCode(t, err, pkgerrors.CodeNotFound)
	require.Zero(t, f.orderCount(t))
}

func TestCreateInsufficientStockRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.createInput(11))
	requireCode(t, err, pkgerrors.CodeStateConflict)

	require.Zero(t, f.orderCount(t))
	require.Equal(t, 10, f.stock(t), "guarded decrement must not partially apply")
	require.Empty(t, f.carrier.created, "rolled back bookings stay local")
}

func TestCreateAppliesDiscountAndRecordsUsage(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	discount := &models.Discount{
		Code:      "WELCOME10",
		Type:      enums.DiscountTypePercentage,
		Value:     decimal.NewFromInt(10),
		StartDate: time.Now().Add(-time.Hour),
		Status:    enums.DiscountStatusActive,
	}
	require.NoError(t, f.db.Create(discount).Error)

	input := f.createInput(2)
	input.DiscountCode = "welcome10"

	order, err := f.svc.Create(ctx, input)
	require.NoError(t, err)
	require.True(t, order.Discount.Equal(decimal.NewFromInt(20)))
	require.True(t, order.Total.Equal(decimal.NewFromInt(180)))
	require.NotNil(t, order.DiscountCode)
	require.Equal(t, "WELCOME10", *order.DiscountCode)

	var stored models.Discount
	require.NoError(t, f.db.Where("code = ?", "WELCOME10").First(&stored).Error)
	require.Equal(t, 1, stored.UsageCount)
}

func TestCreateExhaustedDiscountLeavesNoOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	limit := 1
	discount := &models.Discount{
		Code:       "ONEOFF",
		Type:       enums.DiscountTypeFixed,
		Value:      decimal.NewFromInt(20),
		UsageCount: 1,
		UsageLimit: &limit,
		StartDate:  time.Now().Add(-time.Hour),
		Status:     enums.DiscountStatusActive,
	}
	require.NoError(t, f.db.Create(discount).Error)

	input := f.createInput(2)
	input.DiscountCode = "ONEOFF"

	_, err := f.svc.Create(ctx, input)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	require.Zero(t, f.orderCount(t))
	require.Equal(t, 10, f.stock(t))
	require.Empty(t, f.carrier.created, "no booking may be placed for a rejected discount")

	var stored models.Discount
	require.NoError(t, f.db.Where("code = ?", "ONEOFF").First(&stored).Error)
	require.Equal(t, 1, stored.UsageCount)
}

func TestCreateNotificationFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.notifier.err = pkgerrors.New(pkgerrors.CodeDependency, "whatsapp down")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)
	require.Equal(t, int64(1), f.orderCount(t))
}

func TestCancelRejectsDeliveredAndCancelled(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	for _, state := range []enums.OrderFulfillment{
		enums.OrderFulfillmentDelivered,
		enums.OrderFulfillmentCancelled,
	} {
		order, err := f.svc.Create(ctx, f.createInput(1))
		require.NoError(t, err)
		require.NoError(t, f.db.Model(&models.Order{}).
			Where("id = ?", order.ID).
			UpdateColumn("fulfillment", state).Error)

		_, err = f.svc.Cancel(ctx, order.ID, Scope{UserID: f.user.ID})
		requireCode(t, err, pkgerrors.CodeStateConflict)
	}
}

func TestCancelCallsCarrierThenUpdatesState(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, order.ID, Scope{UserID: f.user.ID})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, enums.OrderFulfillmentCancelled, cancelled.Fulfillment)
	require.Equal(t, []string{"carrier-1"}, f.carrier.cancelled)

	var entries []models.TimelineEntry
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, "Cancelled", entries[0].Label)
}

func TestCancelCarrierFailureKeepsOrderUntouched(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	f.carrier.cancelErr = pkgerrors.New(pkgerrors.CodeDependency, "carrier unavailable")
	_, err = f.svc.Cancel(ctx, order.ID, Scope{UserID: f.user.ID})
	requireCode(t, err, pkgerrors.CodeDependency)

	var stored models.Order
	require.NoError(t, f.db.Where("id = ?", order.ID).First(&stored).Error)
	require.Equal(t, enums.OrderFulfillmentPending, stored.Fulfillment)
	require.Equal(t, enums.OrderStatusPending, stored.Status)
}

func TestCancelScopedToOwner(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, order.ID, Scope{UserID: uuid.New()})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateFulfillmentTransitionTable(t *testing.T) {
	cases := []struct {
		from    enums.OrderFulfillment
		to      enums.OrderFulfillment
		allowed bool
	}{
		{enums.OrderFulfillmentPending, enums.OrderFulfillmentShipped, true},
		{enums.OrderFulfillmentPending, enums.OrderFulfillmentCancelled, true},
		{enums.OrderFulfillmentPending, enums.OrderFulfillmentReturned, true},
		{enums.OrderFulfillmentPending, enums.OrderFulfillmentDelivered, false},
		{enums.OrderFulfillmentShipped, enums.OrderFulfillmentDelivered, true},
		{enums.OrderFulfillmentShipped, enums.OrderFulfillmentReturned, true},
		{enums.OrderFulfillmentShipped, enums.OrderFulfillmentCancelled, true},
		{enums.OrderFulfillmentDelivered, enums.OrderFulfillmentShipped, false},
		{enums.OrderFulfillmentDelivered, enums.OrderFulfillmentCancelled, false},
		{enums.OrderFulfillmentCancelled, enums.OrderFulfillmentShipped, false},
		{enums.OrderFulfillmentReturned, enums.OrderFulfillmentPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			f := newOrderFixture(t)
			ctx := context.Background()

			order, err := f.svc.Create(ctx, f.createInput(1))
			require.NoError(t, err)
			require.NoError(t, f.db.Model(&models.Order{}).
				Where("id = ?", order.ID).
				UpdateColumn("fulfillment", tc.from).Error)

			updated, err := f.svc.UpdateFulfillment(ctx, order.ID, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				require.Equal(t, tc.to, updated.Fulfillment)
				if tc.to == enums.OrderFulfillmentDelivered {
					require.NotNil(t, updated.DeliveredAt)
				}
			} else {
				requireCode(t, err, pkgerrors.CodeStateConflict)
			}
		})
	}
}

func TestUpdateFulfillmentSameStateIsNoOp(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	updated, err := f.svc.UpdateFulfillment(ctx, order.ID, enums.OrderFulfillmentPending)
	require.NoError(t, err)
	require.Equal(t, enums.OrderFulfillmentPending, updated.Fulfillment)
}

func TestListScopedAndSearchable(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	mine, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	other := &models.User{Name: "Dev Patel", Email: "dev@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(other).Error)
	theirs := &models.Order{
		OrderNumber: "VEL-20260101-OTHER1",
		UserID:      other.ID,
		AddressID:   uuid.New(),
		Total:       decimal.NewFromInt(50),
	}
	require.NoError(t, f.db.Create(theirs).Error)

	page, err := f.svc.List(ctx, pageOne(), ListFilters{}, Scope{UserID: f.user.ID})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	require.Equal(t, mine.ID, page.Orders[0].ID)

	page, err = f.svc.List(ctx, pageOne(), ListFilters{}, Scope{Admin: true})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Pagination.TotalItems)

	page, err = f.svc.List(ctx, pageOne(), ListFilters{Search: "other1"}, Scope{Admin: true})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	require.Equal(t, theirs.ID, page.Orders[0].ID)
}

func TestGetIncludesItemsAddressAndTimeline(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	detail, err := f.svc.Get(ctx, order.ID, Scope{UserID: f.user.ID})
	require.NoError(t, err)
	require.Len(t, detail.Order.Items, 1)
	require.NotNil(t, detail.Address)
	require.Equal(t, f.address.ID, detail.Address.ID)
}

func TestDeleteRemovesOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, order.ID))
	_, err = f.svc.Get(ctx, order.ID, Scope{Admin: true})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func pageOne() pagination.Params {
	return pagination.Params{Page: 1, Limit: 10}
}
