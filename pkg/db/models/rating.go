package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductRating is a customer review of a product. Rating stays within
// 1..5; the bound is enforced at the service and backed by a check
// constraint.
type ProductRating struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description;not null"`
	Rating      int       `gorm:"column:rating;not null;check:rating BETWEEN 1 AND 5"`
	Image       *string   `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
