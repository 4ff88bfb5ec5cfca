package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/velora-labs/velora-backend/pkg/enums"
)

// Product is the canonical catalog listing. Stock is tracked per
// variant, never on the product itself.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Description string              `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Discount    decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	CategoryID  uuid.UUID           `gorm:"column:category_id;type:uuid;not null"`
	Status      enums.ProductStatus `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	Material    *string             `gorm:"column:material"`
	Tags        pq.StringArray      `gorm:"column:tags;type:text[];not null"`
	Assets      []ProductAsset      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Colors      []ProductColor      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductAsset is a product-level image or video.
type ProductAsset struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	URL       string          `gorm:"column:url;not null"`
	Type      enums.AssetType `gorm:"column:type;type:text;not null;default:'IMAGE'"`
	Position  int             `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// ProductColor is a color option carrying its own image set and sizes.
type ProductColor struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Color     string           `gorm:"column:color;not null"`
	Images    pq.StringArray   `gorm:"column:images;type:text[];not null"`
	Variants  []ProductVariant `gorm:"foreignKey:ColorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// ProductVariant is a sellable size within a color. Stock never drops
// below zero; decrements are guarded at the database.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ColorID   uuid.UUID `gorm:"column:color_id;type:uuid;not null"`
	Size      string    `gorm:"column:size;not null"`
	Stock     int       `gorm:"column:stock;not null;default:0;check:stock >= 0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
