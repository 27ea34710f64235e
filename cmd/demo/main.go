package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lunaria/storefront-core/internal/cart"
	"github.com/lunaria/storefront-core/pkg/config"
	"github.com/lunaria/storefront-core/pkg/db"
	"github.com/lunaria/storefront-core/pkg/logger"
	"github.com/lunaria/storefront-core/pkg/metrics"
	"github.com/lunaria/storefront-core/pkg/redis"
	"github.com/lunaria/storefront-core/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "demo"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "demo",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	backend, cleanup, err := buildBackend(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage backend", err)
		os.Exit(1)
	}
	defer cleanup()

	cartMetrics := metrics.NewCartMetrics(prometheus.NewRegistry())
	adapter := storage.NewAdapter(ctx, storage.Params{
		Backend: backend,
		Driver:  cfg.Storage.NormalizedDriver(),
		Logger:  logg,
		Metrics: cartMetrics,
	})
	if !adapter.IsPersistent() {
		logg.Warn(ctx, "durable storage unavailable, cart will not survive restarts")
	}

	manager, err := cart.NewManager(ctx, cart.Params{Store: adapter, Logger: logg, Metrics: cartMetrics})
	if err != nil {
		logg.Error(ctx, "failed to build cart manager", err)
		os.Exit(1)
	}

	// Header-badge style consumer: log the item count on every mutation.
	unsubscribe, err := manager.Subscribe(func(items []cart.LineItem) {
		count := 0
		for _, item := range items {
			count += item.Quantity
		}
		logg.Info(logg.WithField(ctx, "item_count", count), "cart updated")
	})
	if err != nil {
		logg.Error(ctx, "failed to subscribe", err)
		os.Exit(1)
	}
	defer unsubscribe()

	if _, err := manager.AddItem(ctx, cart.Product{ProductID: "demo-tee", Name: "Tee", Price: 29.99}, 2); err != nil {
		logg.Error(ctx, "add item failed", err)
		os.Exit(1)
	}
	if _, err := manager.UpdateQuantity(ctx, "demo-tee", 3); err != nil {
		logg.Error(ctx, "update quantity failed", err)
		os.Exit(1)
	}

	fmt.Printf("subtotal=%s tax=%s shipping=%s total=%s\n",
		manager.Subtotal(), manager.Tax(), manager.Shipping(), manager.Total())
}

func buildBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Backend, func(), error) {
	switch cfg.Storage.NormalizedDriver() {
	case config.DriverSQLite:
		client, err := db.New(ctx, cfg.Storage, logg)
		if err != nil {
			return nil, nil, err
		}
		backend, err := storage.NewSQLiteBackend(client.DB())
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return backend, func() { client.Close() }, nil
	case config.DriverRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisBackend(client), func() { client.Close() }, nil
	case config.DriverMemory:
		return storage.NewMemoryBackend(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
