package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/pagination"
)

// Repository defines persistence operations for the catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error)
	FindVariantDetail(ctx context.Context, variantID uuid.UUID) (*VariantDetail, error)
	SetVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error
	DecrementVariantStock(ctx context.Context, variantID uuid.UUID, qty int) (bool, error)
}

// VariantDetail joins a variant with its color and product for snapshotting.
type VariantDetail struct {
	Variant models.ProductVariant
	Color   models.ProductColor
	Product models.Product
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Assets").
		Preload("Colors").
		Preload("Colors.Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Assets").
		Preload("Colors").
		Preload("Colors.Variants").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).Error
}

func (r *repository) FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ?", variantID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) FindVariantDetail(ctx context.Context, variantID uuid.UUID) (*VariantDetail, error) {
	variant, err := r.FindVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	var color models.ProductColor
	if err := r.db.WithContext(ctx).Where("id = ?", variant.ColorID).First(&color).Error; err != nil {
		return nil, err
	}

	var product models.Product
	err = r.db.WithContext(ctx).
		Preload("Assets").
		Where("id = ?", color.ProductID).
		First(&product).Error
	if err != nil {
		return nil, err
	}

	return &VariantDetail{Variant: *variant, Color: color, Product: product}, nil
}

func (r *repository) SetVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", stock).Error
}

// DecrementVariantStock subtracts qty only when enough stock remains.
// The guard runs in the UPDATE itself, so concurrent orders cannot
// drive stock negative. Returns false when the guard rejected the row.
func (r *repository) DecrementVariantStock(ctx context.Context, variantID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
