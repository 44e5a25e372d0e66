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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/routes"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/brands"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/categories"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/customers"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/dashboard"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/orders"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/products"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/config"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/metrics"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/migrate"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/redis"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured; idempotent replay disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCommandMetrics(registry)

	gormDB := dbClient.DB()

	brandService, err := brands.NewService(brands.NewRepository(gormDB), dbClient, logg, recorder)
	if err != nil {
		return err
	}
	categoryService, err := categories.NewService(categories.NewRepository(gormDB), dbClient, logg, recorder)
	if err != nil {
		return err
	}
	productService, err := products.NewService(products.NewRepository(gormDB), dbClient, logg, recorder)
	if err != nil {
		return err
	}
	customerService, err := customers.NewService(customers.NewRepository(gormDB), dbClient, logg, recorder)
	if err != nil {
		return err
	}
	numbers := orders.NewNumberGenerator(cfg.Orders.NumberPrefix, cfg.Orders.NumberAttempts, nil)
	orderService, err := orders.NewService(orders.NewRepository(gormDB), dbClient, numbers, logg, recorder)
	if err != nil {
		return err
	}
	dashboardService, err := dashboard.NewService(dashboard.NewRepository(gormDB), logg, time.Now)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			brandService,
			categoryService,
			productService,
			customerService,
			orderService,
			dashboardService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logg.Info(shutdownCtx, "shutting down api server")
	return server.Shutdown(shutdownCtx)
}
