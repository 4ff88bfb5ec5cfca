package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db/models"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines category operations including priority reordering.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]Summary, error)
	ListDetails(ctx context.Context) ([]Detail, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetPriority(ctx context.Context, id uuid.UUID, newPriority int) (*models.Category, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a category service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Create appends the category at the end of the priority order.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	var created *models.Category
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		max, err := repo.MaxPriority(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving max priority")
		}

		category := &models.Category{
			Name:        name,
			Description: input.Description,
			Priority:    max + 1,
		}
		created, err = repo.Create(ctx, category)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	return category, nil
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	return rows, nil
}

func (s *service) ListDetails(ctx context.Context) ([]Detail, error) {
	rows, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing category details")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
	}
	return s.Get(ctx, id)
}

// Delete removes the category. Remaining priorities are left as-is, so
// the sequence may carry gaps afterwards.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	hasProducts, err := s.repo.HasProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category products")
	}
	if hasProducts {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category still has products")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}

// SetPriority moves the category to newPriority and shifts every
// category in between by one, keeping priorities a dense permutation of
// {1..N}. The moving row is locked for the duration of the transaction.
func (s *service) SetPriority(ctx context.Context, id uuid.UUID, newPriority int) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	var moved *models.Category
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		category, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking category")
		}

		total, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting categories")
		}
		if newPriority < 1 || int64(newPriority) > total {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("priority must be between 1 and %d", total))
		}

		current := category.Priority
		if current == newPriority {
			moved = category
			return nil
		}

		if newPriority < current {
			// Moving up: everything in [new, current) steps down one slot.
			if err := repo.ShiftPriorities(ctx, newPriority, current-1, +1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "shifting priorities up")
			}
		} else {
			// Moving down: everything in (current, new] steps up one slot.
			if err := repo.ShiftPriorities(ctx, current+1, newPriority, -1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "shifting priorities down")
			}
		}

		if err := repo.SetPriority(ctx, id, newPriority); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "setting target priority")
		}

		category.Priority = newPriority
		moved = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}
