package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a storefront collection. Priorities form a dense 1-based
// permutation: every category holds a unique priority in {1..N}.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Priority    int       `gorm:"column:priority;not null;index:idx_categories_priority"`
	Products    []Product `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
