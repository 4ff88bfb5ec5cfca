package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db/models"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
)

// CreateInput carries the fields of a new product review.
type CreateInput struct {
	Title       string
	Description string
	Rating      int
	Image       *string
}

// UpdateInput carries the optional fields of a review edit.
type UpdateInput struct {
	Title       *string
	Description *string
	Rating      *int
	Image       *string
}

// Service defines product review operations.
type Service interface {
	Create(ctx context.Context, userID, productID uuid.UUID, input CreateInput) (*models.ProductRating, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductRating, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, input UpdateInput) (*models.ProductRating, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a ratings service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ratings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, input CreateInput) (*models.ProductRating, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and product id required")
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and description are required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	rating := &models.ProductRating{
		ProductID:   productID,
		UserID:      userID,
		Title:       title,
		Description: description,
		Rating:      input.Rating,
		Image:       input.Image,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating review")
	}
	return rating, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductRating, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, userID, reviewID uuid.UUID, input UpdateInput) (*models.ProductRating, error) {
	rating, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description cannot be empty")
		}
		updates["description"] = description
	}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
		}
		updates["rating"] = *input.Rating
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if len(updates) == 0 {
		return rating, nil
	}

	if err := s.repo.Update(ctx, reviewID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating review")
	}
	updated, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading review")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	if _, err := s.ownedReview(ctx, userID, reviewID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting review")
	}
	return nil
}

// ownedReview loads a review and verifies the caller wrote it.
func (s *service) ownedReview(ctx context.Context, userID, reviewID uuid.UUID) (*models.ProductRating, error) {
	if userID == uuid.Nil || reviewID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and review id required")
	}
	rating, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading review")
	}
	if rating.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another user")
	}
	return rating, nil
}
