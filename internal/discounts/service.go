package discounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db"
	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
	"github.com/velora-labs/velora-backend/pkg/pagination"
)

// CreateInput carries the fields accepted when creating a discount.
type CreateInput struct {
	Code        string
	Type        enums.DiscountType
	Value       decimal.Decimal
	MinPurchase decimal.Decimal
	UsageLimit  *int
	StartDate   time.Time
	EndDate     *time.Time
	Status      enums.DiscountStatus
}

// UpdateInput carries the mutable discount fields.
type UpdateInput struct {
	Value       *decimal.Decimal
	MinPurchase *decimal.Decimal
	UsageLimit  *int
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *enums.DiscountStatus
}

// List bundles a page of discounts with its pagination meta.
type List struct {
	Discounts  []models.Discount `json:"discounts"`
	Pagination pagination.Meta   `json:"pagination"`
}

// Service defines discount CRUD plus cart validation.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Discount, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	GetByCode(ctx context.Context, code string) (*models.Discount, error)
	List(ctx context.Context, params pagination.Params) (*List, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Discount, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*models.Discount, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a discount service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Discount, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.Type == enums.DiscountTypePercentage && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}

	status := input.Status
	if status == "" {
		status = enums.DiscountStatusActive
	}

	discount := &models.Discount{
		Code:        code,
		Type:        input.Type,
		Value:       input.Value,
		MinPurchase: input.MinPurchase,
		UsageLimit:  input.UsageLimit,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      status,
	}

	created, err := s.repo.Create(ctx, discount)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("discount code %s already exists", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating discount")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount id required")
	}
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading discount")
	}
	return discount, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*models.Discount, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code required")
	}
	discount, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading discount")
	}
	return discount, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*List, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing discounts")
	}
	return &List{Discounts: rows, Pagination: params.MetaFor(total)}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Discount, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Value != nil {
		if input.Value.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
		}
		updates["value"] = *input.Value
	}
	if input.MinPurchase != nil {
		updates["min_purchase"] = *input.MinPurchase
	}
	if input.UsageLimit != nil {
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount status")
		}
		updates["status"] = *input.Status
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating discount")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting discount")
	}
	return nil
}

// Validate checks the code can be applied to a cart of the given total.
// Usage recording is deliberately left to the order workflow.
func (s *service) Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*models.Discount, error) {
	discount, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := CheckApplicable(discount, cartTotal, s.now()); err != nil {
		return nil, err
	}
	return discount, nil
}

// CheckApplicable reports whether the discount can be applied to a cart
// of the given total at the given instant. It is exported so callers
// holding a transaction-bound repository can validate the row they just
// read instead of going through the service.
func CheckApplicable(discount *models.Discount, cartTotal decimal.Decimal, now time.Time) error {
	switch {
	case discount.Status != enums.DiscountStatusActive:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "discount is not active")
	case discount.StartDate.After(now):
		return pkgerrors.New(pkgerrors.CodeStateConflict, "discount is not active yet")
	case discount.EndDate != nil && discount.EndDate.Before(now):
		return pkgerrors.New(pkgerrors.CodeStateConflict, "discount has expired")
	case discount.UsageLimit != nil && discount.UsageCount >= *discount.UsageLimit:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "discount usage limit reached")
	case cartTotal.LessThan(discount.MinPurchase):
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cart total below minimum purchase of %s", discount.MinPurchase.StringFixed(2)))
	}
	return nil
}
