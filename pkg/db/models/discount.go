package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-labs/velora-backend/pkg/enums"
)

// Discount is a promotion code. Codes are stored uppercase so lookups
// are case-insensitive.
type Discount struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string               `gorm:"column:code;not null;uniqueIndex"`
	Type        enums.DiscountType   `gorm:"column:type;type:text;not null"`
	Value       decimal.Decimal      `gorm:"column:value;type:numeric(12,2);not null"`
	MinPurchase decimal.Decimal      `gorm:"column:min_purchase;type:numeric(12,2);not null;default:0"`
	UsageCount  int                  `gorm:"column:usage_count;not null;default:0"`
	UsageLimit  *int                 `gorm:"column:usage_limit"`
	StartDate   time.Time            `gorm:"column:start_date;not null"`
	EndDate     *time.Time           `gorm:"column:end_date"`
	Status      enums.DiscountStatus `gorm:"column:status;type:text;not null;default:'ACTIVE'"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
