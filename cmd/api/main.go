package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velora-labs/velora-backend/api/routes"
	"github.com/velora-labs/velora-backend/internal/analytics"
	"github.com/velora-labs/velora-backend/internal/categories"
	"github.com/velora-labs/velora-backend/internal/customers"
	"github.com/velora-labs/velora-backend/internal/discounts"
	"github.com/velora-labs/velora-backend/internal/orders"
	"github.com/velora-labs/velora-backend/internal/products"
	"github.com/velora-labs/velora-backend/internal/ratings"
	"github.com/velora-labs/velora-backend/internal/wishlist"
	"github.com/velora-labs/velora-backend/pkg/config"
	"github.com/velora-labs/velora-backend/pkg/db"
	"github.com/velora-labs/velora-backend/pkg/logger"
	"github.com/velora-labs/velora-backend/pkg/metrics"
	"github.com/velora-labs/velora-backend/pkg/migrate"
	"github.com/velora-labs/velora-backend/pkg/razorpay"
	"github.com/velora-labs/velora-backend/pkg/redis"
	"github.com/velora-labs/velora-backend/pkg/shipping"
	"github.com/velora-labs/velora-backend/pkg/whatsapp"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	razorpayClient, err := razorpay.NewClient(cfg.Razorpay)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}
	shippingClient, err := shipping.NewClient(cfg.Shipping)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping client", err)
		os.Exit(1)
	}
	whatsappClient, err := whatsapp.NewClient(cfg.WhatsApp)
	if err != nil {
		logg.Error(context.Background(), "failed to create whatsapp client", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	categoriesRepo := categories.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	discountsRepo := discounts.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	wishlistRepo := wishlist.NewRepository(gormDB)
	ratingsRepo := ratings.NewRepository(gormDB)
	customersRepo := customers.NewRepository(gormDB)
	analyticsRepo := analytics.NewRepository(gormDB)

	categoriesService, err := categories.NewService(categoriesRepo, dbClient)
	requireService(logg, "categories", err)
	productsService, err := products.NewService(productsRepo, dbClient)
	requireService(logg, "products", err)
	discountsService, err := discounts.NewService(discountsRepo)
	requireService(logg, "discounts", err)
	wishlistService, err := wishlist.NewService(wishlistRepo)
	requireService(logg, "wishlist", err)
	ratingsService, err := ratings.NewService(ratingsRepo)
	requireService(logg, "ratings", err)
	customersService, err := customers.NewService(customersRepo, dbClient, cfg.JWT, cfg.Password)
	requireService(logg, "customers", err)
	analyticsService, err := analytics.NewService(analyticsRepo)
	requireService(logg, "analytics", err)
	ordersService, err := orders.NewService(orders.ServiceDeps{
		Repo:      ordersRepo,
		Products:  productsRepo,
		Discounts: discountsRepo,
		Payments:  razorpayClient,
		Carrier:   shippingClient,
		Notifier:  whatsappClient,
		Tx:        dbClient,
		Logger:    logg,
	})
	requireService(logg, "orders", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
		DB:          dbClient,
		Redis:       redisClient,
		Categories:  categoriesService,
		Products:    productsService,
		Orders:      ordersService,
		Discounts:   discountsService,
		Wishlist:    wishlistService,
		Ratings:     ratingsService,
		Customers:   customersService,
		Analytics:   analyticsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
