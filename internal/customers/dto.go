package customers

import (
	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/pagination"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LoginInput carries credentials for token minting.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a minted session for a verified user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// AddressInput carries a shipping address create or replace.
type AddressInput struct {
	FirstName   string
	LastName    string
	Street      string
	AptNumber   *string
	City        string
	State       string
	Country     string
	ZipCode     string
	PhoneNumber string
	Default     bool
}

// ListFilters narrows the admin customer listing.
type ListFilters struct {
	Search string
}

// List bundles a page of users with its pagination meta.
type List struct {
	Customers  []models.User   `json:"customers"`
	Pagination pagination.Meta `json:"pagination"`
}
