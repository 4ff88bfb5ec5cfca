package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db/models"
)

// ProductSales is one aggregated sales row for a product.
type ProductSales struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Sales     int64           `json:"sales"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Repository defines the read-side aggregates behind sales analytics.
type Repository interface {
	PaidRevenueSince(ctx context.Context, since *time.Time) (decimal.Decimal, error)
	PaidOrderCountSince(ctx context.Context, since *time.Time) (int64, error)
	NewCustomersSince(ctx context.Context, since *time.Time) (int64, error)
	TopProductSales(ctx context.Context, limit int) ([]ProductSales, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	NewestProductsExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PaidRevenueSince(ctx context.Context, since *time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("paid = ?", true)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var row struct {
		Revenue decimal.Decimal
	}
	err := query.Select("COALESCE(SUM(total), 0) AS revenue").Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Revenue, nil
}

func (r *repository) PaidOrderCountSince(ctx context.Context, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("paid = ?", true)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repository) NewCustomersSince(ctx context.Context, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// TopProductSales aggregates order lines per product, ranked by units
// sold. Names come from the purchase-time snapshot, so renamed or
// deleted products still report correctly.
func (r *repository) TopProductSales(ctx context.Context, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("product_id, MIN(product_name) AS name, COALESCE(SUM(quantity), 0) AS sales, COALESCE(SUM(quantity * price_at_order), 0) AS revenue").
		Group("product_id").
		Order("sales DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) NewestProductsExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Limit(limit)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
