package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/minishop-backend/api/routes"
	"github.com/angelmondragon/minishop-backend/internal/carts"
	"github.com/angelmondragon/minishop-backend/internal/customers"
	"github.com/angelmondragon/minishop-backend/internal/offers"
	"github.com/angelmondragon/minishop-backend/internal/orders"
	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/internal/stores"
	"github.com/angelmondragon/minishop-backend/internal/tenants"
	"github.com/angelmondragon/minishop-backend/internal/upsells"
	"github.com/angelmondragon/minishop-backend/pkg/config"
	"github.com/angelmondragon/minishop-backend/pkg/db"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
	"github.com/angelmondragon/minishop-backend/pkg/metrics"
	"github.com/angelmondragon/minishop-backend/pkg/migrate"
	"github.com/angelmondragon/minishop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.LogFormat == "console",
	})

	// money fields render as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.AutoApply(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gdb := dbClient.DB()
	productRepo := products.NewRepository(gdb)
	offerRepo := offers.NewRepository(gdb)
	upsellRepo := upsells.NewRepository(gdb)

	tenantRepo := tenants.NewRepository(gdb)
	tenantResolver, err := tenants.NewResolver(tenantRepo)
	requireService(logg, "tenant resolver", err)

	storeService, err := stores.NewService(stores.NewRepository(gdb), tenantRepo)
	requireService(logg, "store service", err)

	productService, err := products.NewService(productRepo, dbClient)
	requireService(logg, "product service", err)

	offerService, err := offers.NewService(offerRepo, logg)
	requireService(logg, "offer service", err)

	upsellService, err := upsells.NewService(upsellRepo, productRepo, logg)
	requireService(logg, "upsell service", err)

	cartService, err := carts.NewService(carts.NewRepository(gdb), productRepo)
	requireService(logg, "cart service", err)

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:            orders.NewRepository(gdb),
		Tx:              dbClient,
		Products:        productRepo,
		Offers:          offerRepo,
		Upsells:         upsellRepo,
		Customers:       customers.NewRepository(gdb),
		Metrics:         checkoutMetrics,
		Logger:          logg,
		MaxLineQuantity: cfg.Checkout.MaxLineQuantity,
		MaxLines:        cfg.Checkout.MaxLines,
	})
	requireService(logg, "order service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Cache:    redisClient,
			Gatherer: registry,
			Tenants:  tenantResolver,
			Stores:   storeService,
			Products: productService,
			Orders:   orderService,
			Offers:   offerService,
			Upsells:  upsellService,
			Carts:    cartService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name, err)
	os.Exit(1)
}
