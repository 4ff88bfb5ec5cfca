package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db/models"
)

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
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
  quantity INTEGER NOT NULL,
  price_at_order TEXT NOT NULL,
  size TEXT NOT NULL,
  color TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_image TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func newTestService(t *testing.T, db *gorm.DB, now time.Time) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return now }
	return svc
}

func seedOrder(t *testing.T, db *gorm.DB, total int64, paid bool, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "VEL-" + uuid.NewString()[:13],
		UserID:      uuid.New(),
		AddressID:   uuid.New(),
		Total:       decimal.NewFromInt(total),
		Paid:        paid,
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Model(order).UpdateColumn("created_at", createdAt).Error)
	return order
}

func seedItem(t *testing.T, db *gorm.DB, orderID, productID uuid.UUID, name string, qty int, unitPrice int64) {
	t.Helper()
	item := &models.OrderItem{
		OrderID:          orderID,
		ProductID:        productID,
		ProductVariantID: uuid.New(),
		Quantity:         qty,
		PriceAtOrder:     decimal.NewFromInt(unitPrice),
		Size:             "M",
		Color:            "Sand",
		ProductName:      name,
	}
	require.NoError(t, db.Create(item).Error)
}

func seedUser(t *testing.T, db *gorm.DB, createdAt time.Time) {
	t.Helper()
	user := &models.User{
		Name:         "Customer",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).UpdateColumn("created_at", createdAt).Error)
}

func TestOverviewCountsOnlyPaidOrdersInWindow(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, now)
	ctx := context.Background()

	seedOrder(t, db, 100, true, now.AddDate(0, 0, -5))
	seedOrder(t, db, 200, true, now.AddDate(0, 0, -10))
	seedOrder(t, db, 400, true, now.AddDate(0, 0, -60)) // outside the window
	seedOrder(t, db, 999, false, now.AddDate(0, 0, -2)) // unpaid, never counted

	seedUser(t, db, now.AddDate(0, 0, -3))
	seedUser(t, db, now.AddDate(0, 0, -90))

	overview, err := svc.Overview(ctx, 30)
	require.NoError(t, err)
	require.True(t, overview.TotalRevenue.Equal(decimal.NewFromInt(300)),
		"window revenue was %s", overview.TotalRevenue)
	require.Equal(t, int64(2), overview.TotalOrders)
	require.Equal(t, int64(1), overview.NewCustomers)

	// 300 of 700 all-time paid revenue landed in the window.
	expectedGrowth := decimal.NewFromInt(300).
		Div(decimal.NewFromInt(700)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	require.True(t, overview.SalesGrowth.Equal(expectedGrowth),
		"growth was %s, want %s", overview.SalesGrowth, expectedGrowth)
}

func TestOverviewAllTime(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, now)

	seedOrder(t, db, 100, true, now.AddDate(0, 0, -5))
	seedOrder(t, db, 300, true, now.AddDate(0, 0, -120))

	overview, err := svc.Overview(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, overview.TotalRevenue.Equal(decimal.NewFromInt(400)))
	require.Equal(t, int64(2), overview.TotalOrders)
}

func TestOverviewEmptyDatabase(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	svc := newTestService(t, db, time.Now())

	overview, err := svc.Overview(context.Background(), 30)
	require.NoError(t, err)
	require.True(t, overview.TotalRevenue.IsZero())
	require.True(t, overview.SalesGrowth.IsZero(), "zero revenue must not divide")
	require.Zero(t, overview.TotalOrders)
}

func TestTopProductsRankedByUnits(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Now()
	svc := newTestService(t, db, now)
	ctx := context.Background()

	order := seedOrder(t, db, 1000, true, now)
	shirt, coat := uuid.New(), uuid.New()
	seedItem(t, db, order.ID, shirt, "Linen Shirt", 5, 100)
	seedItem(t, db, order.ID, shirt, "Linen Shirt", 2, 100)
	seedItem(t, db, order.ID, coat, "Wool Coat", 3, 400)

	rows, err := svc.TopProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, shirt, rows[0].ProductID)
	require.Equal(t, int64(7), rows[0].Sales)
	require.True(t, rows[0].Revenue.Equal(decimal.NewFromInt(700)))
	require.Equal(t, coat, rows[1].ProductID)
	require.True(t, rows[1].Revenue.Equal(decimal.NewFromInt(1200)))
}

func TestBestSellersPadsWithNewestProducts(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Now()
	svc := newTestService(t, db, now)
	ctx := context.Background()

	sold := &models.Product{
		Name:       "Linen Shirt",
		Price:      decimal.NewFromInt(100),
		CategoryID: uuid.New(),
		Assets:     []models.ProductAsset{{URL: "https://cdn.example.com/shirt.jpg"}},
	}
	require.NoError(t, db.Create(sold).Error)
	fresh := &models.Product{
		Name:       "New Arrival",
		Price:      decimal.NewFromInt(250),
		CategoryID: uuid.New(),
	}
	require.NoError(t, db.Create(fresh).Error)

	order := seedOrder(t, db, 500, true, now)
	seedItem(t, db, order.ID, sold.ID, "Linen Shirt", 5, 100)

	cards, err := svc.BestSellers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, sold.ID, cards[0].ProductID)
	require.Equal(t, int64(5), cards[0].Sales)
	require.NotNil(t, cards[0].CoverImage)
	require.Equal(t, fresh.ID, cards[1].ProductID)
	require.Zero(t, cards[1].Sales, "padded products carry no sales history")
}
