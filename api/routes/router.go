package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velora-labs/velora-backend/api/controllers"
	"github.com/velora-labs/velora-backend/api/middleware"
	"github.com/velora-labs/velora-backend/internal/analytics"
	"github.com/velora-labs/velora-backend/internal/categories"
	"github.com/velora-labs/velora-backend/internal/customers"
	"github.com/velora-labs/velora-backend/internal/discounts"
	"github.com/velora-labs/velora-backend/internal/orders"
	"github.com/velora-labs/velora-backend/internal/products"
	"github.com/velora-labs/velora-backend/internal/ratings"
	"github.com/velora-labs/velora-backend/internal/wishlist"
	"github.com/velora-labs/velora-backend/pkg/config"
	"github.com/velora-labs/velora-backend/pkg/enums"
	"github.com/velora-labs/velora-backend/pkg/logger"
	"github.com/velora-labs/velora-backend/pkg/metrics"
	pkgredis "github.com/velora-labs/velora-backend/pkg/redis"
)

// Deps bundles everything the router needs so cmd/api stays readable.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	DB          controllers.Pinger
	Redis       *pkgredis.Client

	Categories categories.Service
	Products   products.Service
	Orders     orders.Service
	Discounts  discounts.Service
	Wishlist   wishlist.Service
	Ratings    ratings.Service
	Customers  customers.Service
	Analytics  analytics.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	pingers := map[string]controllers.Pinger{}
	if deps.DB != nil {
		pingers["database"] = deps.DB
	}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Carrier callbacks authenticate at the network edge, not with user tokens.
	r.Post("/api/webhook", controllers.CarrierWebhook(deps.Orders, logg))

	r.Route("/api/v1", func(r chi.Router) {
		// public storefront surface
		r.Get("/categories", controllers.CategoryList(deps.Categories, logg))
		r.Get("/categories/details", controllers.CategoryDetails(deps.Categories, logg))
		r.Get("/categories/{categoryId}", controllers.CategoryGet(deps.Categories, logg))
		r.Get("/products", controllers.ProductList(deps.Products, logg))
		r.Get("/products/{productId}", controllers.ProductGet(deps.Products, logg))
		r.Get("/discounts/name/{code}", controllers.DiscountGetByCode(deps.Discounts, logg))
		r.Get("/reviews", controllers.RatingsListByProduct(deps.Ratings, logg))
		r.Post("/customers/register", controllers.CustomerRegister(deps.Customers, logg))
		r.Post("/customers/login", controllers.CustomerLogin(deps.Customers, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			// The idempotency gate runs after every authorization check
			// so a rejected caller never consumes or replays a key.
			var idemStore pkgredis.IdempotencyStore
			if deps.Redis != nil {
				idemStore = deps.Redis
			}
			idempotency := middleware.Idempotency(idemStore, logg)

			r.Route("/orders", func(r chi.Router) {
				r.Use(idempotency)
				r.Post("/", controllers.OrderCreate(deps.Orders, logg))
				r.Get("/", controllers.OrderList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
					r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(deps.Orders, logg))
					r.Patch("/{orderId}/fulfillment", controllers.OrderUpdateFulfillment(deps.Orders, logg))
					r.Delete("/{orderId}", controllers.OrderDelete(deps.Orders, logg))
				})
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Use(idempotency)
				r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Post("/{productId}", controllers.RatingsCreate(deps.Ratings, logg))
				r.Put("/{reviewId}", controllers.RatingsUpdate(deps.Ratings, logg))
				r.Delete("/{reviewId}", controllers.RatingsDelete(deps.Ratings, logg))
			})

			r.Get("/customers/me", controllers.CustomerProfile(deps.Customers, logg))
			r.Put("/customers/me", controllers.CustomerProfileUpdate(deps.Customers, logg))
			r.Get("/customers/me/addresses", controllers.AddressList(deps.Customers, logg))
			r.Post("/customers/me/addresses", controllers.AddressCreate(deps.Customers, logg))
			r.Put("/customers/me/addresses/{addressId}", controllers.AddressUpdate(deps.Customers, logg))
			r.Delete("/customers/me/addresses/{addressId}", controllers.AddressDelete(deps.Customers, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Use(idempotency)

				r.Post("/categories", controllers.CategoryCreate(deps.Categories, logg))
				r.Put("/categories/priority", controllers.CategoryReorder(deps.Categories, logg))
				r.Put("/categories/{categoryId}", controllers.CategoryUpdate(deps.Categories, logg))
				r.Delete("/categories/{categoryId}", controllers.CategoryDelete(deps.Categories, logg))

				r.Post("/products", controllers.ProductCreate(deps.Products, logg))
				r.Put("/products/{productId}", controllers.ProductUpdate(deps.Products, logg))
				r.Delete("/products/{productId}", controllers.ProductDelete(deps.Products, logg))
				r.Patch("/products/variants/{variantId}/stock", controllers.ProductUpdateStock(deps.Products, logg))

				r.Post("/discounts", controllers.DiscountCreate(deps.Discounts, logg))
				r.Get("/discounts", controllers.DiscountList(deps.Discounts, logg))
				r.Get("/discounts/{discountId}", controllers.DiscountGet(deps.Discounts, logg))
				r.Put("/discounts/{discountId}", controllers.DiscountUpdate(deps.Discounts, logg))
				r.Delete("/discounts/{discountId}", controllers.DiscountDelete(deps.Discounts, logg))

				r.Get("/customers", controllers.CustomerList(deps.Customers, logg))

				r.Get("/analytics/overview", controllers.AnalyticsOverview(deps.Analytics, logg))
				r.Get("/analytics/top-products", controllers.AnalyticsTopProducts(deps.Analytics, logg))
				r.Get("/analytics/best-sellers", controllers.AnalyticsBestSellers(deps.Analytics, logg))
			})
		})
	})

	return r
}
