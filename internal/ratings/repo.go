package ratings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db/models"
)

// Repository defines persistence operations for product reviews.
type Repository interface {
	Create(ctx context.Context, rating *models.ProductRating) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductRating, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductRating, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ratings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rating *models.ProductRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductRating, error) {
	var rating models.ProductRating
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductRating, error) {
	var rows []models.ProductRating
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductRating{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ProductRating{}).Error
}

func (r *repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
