package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-labs/velora-backend/pkg/db"
	"github.com/velora-labs/velora-backend/pkg/db/models"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
	"github.com/velora-labs/velora-backend/pkg/pagination"
)

// Entry is one wishlist line with a joined product summary.
type Entry struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	Status     string          `json:"status"`
	CoverImage *string         `json:"coverImage,omitempty"`
	AddedAt    string          `json:"addedAt"`
}

// List bundles a page of wishlist entries with its pagination meta.
type List struct {
	Items      []Entry         `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// Service defines wishlist operations.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
}

type service struct {
	repo Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and product id required")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.repo.Add(ctx, item); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is already in the wishlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding wishlist item")
	}
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing wishlist")
	}

	items := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{
			ProductID: row.ProductID,
			AddedAt:   row.CreatedAt.Format(time.RFC3339),
		}
		if row.Product != nil {
			entry.Name = row.Product.Name
			entry.Price = row.Product.Price
			entry.Discount = row.Product.Discount
			entry.Status = row.Product.Status.String()
			if len(row.Product.Assets) > 0 {
				image := row.Product.Assets[0].URL
				entry.CoverImage = &image
			}
		}
		items = append(items, entry)
	}
	return &List{Items: items, Pagination: params.MetaFor(total)}, nil
}
