package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velora-labs/velora-backend/pkg/db/models"
)

// Repository defines persistence operations for categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]Summary, error)
	ListDetails(ctx context.Context) ([]Detail, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	MaxPriority(ctx context.Context) (int, error)
	Count(ctx context.Context) (int64, error)
	ShiftPriorities(ctx context.Context, low, high, delta int) error
	SetPriority(ctx context.Context, id uuid.UUID, priority int) error
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a categories repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no row locks; writers serialize on the database lock.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var category models.Category
	err := q.
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) List(ctx context.Context) ([]Summary, error) {
	var rows []Summary
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, categories.description, categories.priority, categories.created_at, categories.updated_at, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name, categories.description, categories.priority, categories.created_at, categories.updated_at").
		Order("categories.priority ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListDetails(ctx context.Context) ([]Detail, error) {
	var rows []Detail
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, categories.priority, COUNT(products.id) AS product_count, MIN(product_assets.url) AS cover_image").
		Joins("JOIN products ON products.category_id = categories.id AND products.status = ?", "PUBLISHED").
		Joins("LEFT JOIN product_assets ON product_assets.product_id = products.id").
		Group("categories.id, categories.name, categories.priority").
		Having("COUNT(products.id) > 0").
		Order("categories.priority ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Category{}).Error
}

func (r *repository) MaxPriority(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("MAX(priority)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Count(&count).Error
	return count, err
}

// ShiftPriorities adds delta to every category whose priority lies in
// [low, high]. Callers run this inside a transaction.
func (r *repository) ShiftPriorities(ctx context.Context, low, high, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("priority >= ? AND priority <= ?", low, high).
		UpdateColumn("priority", gorm.Expr("priority + ?", delta)).Error
}

func (r *repository) SetPriority(ctx context.Context, id uuid.UUID, priority int) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		UpdateColumn("priority", priority).Error
}

func (r *repository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
