package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
)

// Overview is the sales dashboard headline block.
type Overview struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int64           `json:"totalOrders"`
	NewCustomers int64           `json:"newCustomers"`
	SalesGrowth  decimal.Decimal `json:"salesGrowth"`
}

// BestSeller is a catalog card enriched with sales aggregates.
type BestSeller struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	CoverImage *string         `json:"coverImage,omitempty"`
	Sales      int64           `json:"sales"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// Service defines sales analytics reads. All endpoints are admin-only.
type Service interface {
	Overview(ctx context.Context, days int) (*Overview, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
	BestSellers(ctx context.Context, limit int) ([]BestSeller, error)
}

const defaultLimit = 5

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds an analytics service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Overview reports revenue of paid orders, paid order count, and new
// customers for the window, plus window-over-all-time growth. days <= 0
// means all time.
func (s *service) Overview(ctx context.Context, days int) (*Overview, error) {
	var since *time.Time
	if days > 0 {
		cutoff := s.now().AddDate(0, 0, -days)
		since = &cutoff
	}

	revenue, err := s.repo.PaidRevenueSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating revenue")
	}
	orders, err := s.repo.PaidOrderCountSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	customers, err := s.repo.NewCustomersSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting customers")
	}

	allTime, err := s.repo.PaidRevenueSince(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating all-time revenue")
	}

	growth := decimal.Zero
	if allTime.IsPositive() {
		windowRevenue := revenue
		if since == nil {
			// All-time windows compare the trailing 30 days instead.
			cutoff := s.now().AddDate(0, 0, -30)
			windowRevenue, err = s.repo.PaidRevenueSince(ctx, &cutoff)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating trailing revenue")
			}
		}
		growth = windowRevenue.Div(allTime).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &Overview{
		TotalRevenue: revenue,
		TotalOrders:  orders,
		NewCustomers: customers,
		SalesGrowth:  growth,
	}, nil
}

func (s *service) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.repo.TopProductSales(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating top products")
	}
	return rows, nil
}

// BestSellers returns catalog cards for the highest selling products,
// padded with the newest products when sales history is thin.
func (s *service) BestSellers(ctx context.Context, limit int) ([]BestSeller, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	sales, err := s.repo.TopProductSales(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating best sellers")
	}

	ids := make([]uuid.UUID, 0, len(sales))
	salesByID := make(map[uuid.UUID]ProductSales, len(sales))
	for _, row := range sales {
		ids = append(ids, row.ProductID)
		salesByID[row.ProductID] = row
	}

	products, err := s.repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading best sellers")
	}
	if missing := limit - len(products); missing > 0 {
		padding, err := s.repo.NewestProductsExcluding(ctx, ids, missing)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "padding best sellers")
		}
		products = append(products, padding...)
	}

	out := make([]BestSeller, 0, len(products))
	for _, product := range products {
		card := BestSeller{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Discount:  product.Discount,
			Revenue:   decimal.Zero,
		}
		if aggregate, ok := salesByID[product.ID]; ok {
			card.Sales = aggregate.Sales
			card.Revenue = aggregate.Revenue
		}
		if len(product.Assets) > 0 {
			image := product.Assets[0].URL
			card.CoverImage = &image
		}
		out = append(out, card)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	return out, nil
}
