package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/enums"
	"github.com/velora-labs/velora-backend/pkg/pagination"
)

// VariantInput declares one sellable size under a color.
type VariantInput struct {
	Size  string
	Stock int
}

// ColorInput declares a color option with its images and sizes.
type ColorInput struct {
	Color    string
	Images   []string
	Variants []VariantInput
}

// AssetInput declares a product-level asset.
type AssetInput struct {
	URL      string
	Type     enums.AssetType
	Position int
}

// CreateInput carries everything needed to create a product.
type CreateInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	CategoryID  uuid.UUID
	Status      enums.ProductStatus
	Material    *string
	Tags        []string
	Assets      []AssetInput
	Colors      []ColorInput
}

// UpdateInput carries the mutable product fields.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Discount    *decimal.Decimal
	CategoryID  *uuid.UUID
	Status      *enums.ProductStatus
	Material    *string
	Tags        []string
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search     string
	Status     *enums.ProductStatus
	CategoryID *uuid.UUID
}

// List bundles a page of products with its pagination meta.
type List struct {
	Products   []models.Product `json:"products"`
	Pagination pagination.Meta  `json:"pagination"`
}
