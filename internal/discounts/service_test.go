package discounts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velora-labs/velora-backend/pkg/db/models"
	"github.com/velora-labs/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
	"github.com/velora-labs/velora-backend/pkg/pagination"
)

type stubRepo struct {
	byCode   map[string]*models.Discount
	created  []*models.Discount
	usageInc []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{byCode: map[string]*models.Discount{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if _, exists := s.byCode[discount.Code]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	discount.ID = uuid.New()
	s.byCode[discount.Code] = discount
	s.created = append(s.created, discount)
	return discount, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	for _, d := range s.byCode {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	d, ok := s.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (s *stubRepo) List(ctx context.Context, params pagination.Params) ([]models.Discount, int64, error) {
	out := make([]models.Discount, 0, len(s.byCode))
	for _, d := range s.byCode {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubRepo) IncrementUsage(ctx context.Context, code string) (bool, error) {
	s.usageInc = append(s.usageInc, strings.ToUpper(code))
	return true, nil
}

func newValidDiscount(code string) *models.Discount {
	return &models.Discount{
		ID:          uuid.New(),
		Code:        strings.ToUpper(code),
		Type:        enums.DiscountTypePercentage,
		Value:       decimal.NewFromInt(10),
		MinPurchase: decimal.NewFromInt(500),
		StartDate:   time.Now().Add(-time.Hour),
		Status:      enums.DiscountStatusActive,
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func TestCreateUppercasesCode(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateInput{
		Code:      "summer25",
		Type:      enums.DiscountTypePercentage,
		Value:     decimal.NewFromInt(25),
		StartDate: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, "SUMMER25", created.Code)
}

func TestCreateDuplicateCodeConflicts(t *testing.T) {
	repo := newStubRepo()
	repo.byCode["SUMMER25"] = newValidDiscount("SUMMER25")
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{
		Code:      "Summer25",
		Type:      enums.DiscountTypeFixed,
		Value:     decimal.NewFromInt(100),
		StartDate: time.Now(),
	})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateRejectsExcessivePercentage(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{
		Code:      "BROKEN",
		Type:      enums.DiscountTypePercentage,
		Value:     decimal.NewFromInt(150),
		StartDate: time.Now(),
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestGetByCodeIsCaseInsensitive(t *testing.T) {
	repo := newStubRepo()
	repo.byCode["SUMMER25"] = newValidDiscount("SUMMER25")
	svc, err := NewService(repo)
	require.NoError(t, err)

	found, err := svc.GetByCode(context.Background(), "  summer25 ")
	require.NoError(t, err)
	require.Equal(t, "SUMMER25", found.Code)
}

func TestValidateWindows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	limit := 5

	cases := []struct {
		name     string
		mutate   func(d *models.Discount)
		total    decimal.Decimal
		wantCode pkgerrors.Code
	}{
		{
			name:   "valid",
			mutate: func(d *models.Discount) {},
			total:  decimal.NewFromInt(1000),
		},
		{
			name:     "inactive status",
			mutate:   func(d *models.Discount) { d.Status = enums.DiscountStatusInactive },
			total:    decimal.NewFromInt(1000),
			wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name:     "not started",
			mutate:   func(d *models.Discount) { d.StartDate = future },
			total:    decimal.NewFromInt(1000),
			wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name:     "expired",
			mutate:   func(d *models.Discount) { d.EndDate = &past },
			total:    decimal.NewFromInt(1000),
			wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "usage limit reached",
			mutate: func(d *models.Discount) {
				d.UsageLimit = &limit
				d.UsageCount = 5
			},
			total:    decimal.NewFromInt(1000),
			wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name:     "below minimum purchase",
			mutate:   func(d *models.Discount) {},
			total:    decimal.NewFromInt(499),
			wantCode: pkgerrors.CodeStateConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubRepo()
			discount := newValidDiscount("SUMMER25")
			discount.StartDate = past
			tc.mutate(discount)
			repo.byCode[discount.Code] = discount

			svc, err := NewService(repo)
			require.NoError(t, err)
			svc.(*service).now = func() time.Time { return now }

			_, err = svc.Validate(context.Background(), "summer25", tc.total)
			if tc.wantCode == "" {
				require.NoError(t, err)
			} else {
				requireCode(t, err, tc.wantCode)
			}
		})
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "NOPE", decimal.NewFromInt(1000))
	requireCode(t, err, pkgerrors.CodeNotFound)
}
