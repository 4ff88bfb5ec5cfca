package categories

import (
	"time"

	"github.com/google/uuid"
)

// CreateInput carries the fields accepted when creating a category.
type CreateInput struct {
	Name        string
	Description *string
}

// UpdateInput carries the mutable category fields.
type UpdateInput struct {
	Name        *string
	Description *string
}

// Summary is the list/read projection including the product count.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Priority     int       `json:"priority"`
	ProductCount int64     `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Detail is the storefront projection: only categories holding published
// products, with a cover image pulled from the first product asset.
type Detail struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Priority     int       `json:"priority"`
	ProductCount int64     `json:"productCount"`
	CoverImage   *string   `json:"coverImage,omitempty"`
}
