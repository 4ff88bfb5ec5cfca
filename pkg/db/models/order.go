package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-labs/velora-backend/pkg/enums"
)

// Order is a placed customer order. Items snapshot product data at
// purchase time, so later catalog edits never rewrite history.
type Order struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    string                 `gorm:"column:order_number;not null;uniqueIndex"`
	UserID         uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	AddressID      uuid.UUID              `gorm:"column:address_id;type:uuid;not null"`
	Total          decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	Status         enums.OrderStatus      `gorm:"column:status;type:text;not null;default:'PENDING'"`
	Fulfillment    enums.OrderFulfillment `gorm:"column:fulfillment;type:text;not null;default:'PENDING'"`
	Paid           bool                   `gorm:"column:paid;not null;default:false"`
	PaymentOrderID *string                `gorm:"column:payment_order_id"`
	Discount       decimal.Decimal        `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	DiscountCode   *string                `gorm:"column:discount_code"`
	AWB            *string                `gorm:"column:awb"`
	DeliveryStatus *string                `gorm:"column:delivery_status"`
	ETD            *string                `gorm:"column:etd"`
	CarrierOrderID *string                `gorm:"column:carrier_order_id"`
	DeliveredAt    *time.Time             `gorm:"column:delivered_at"`
	Items          []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Timeline       []TimelineEntry        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is an immutable purchase-time snapshot of one variant.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductVariantID uuid.UUID       `gorm:"column:product_variant_id;type:uuid;not null"`
	Quantity         int             `gorm:"column:quantity;not null"`
	PriceAtOrder     decimal.Decimal `gorm:"column:price_at_order;type:numeric(12,2);not null"`
	Size             string          `gorm:"column:size;not null"`
	Color            string          `gorm:"column:color;not null"`
	ProductName      string          `gorm:"column:product_name;not null"`
	ProductImage     *string         `gorm:"column:product_image"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
