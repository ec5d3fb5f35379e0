package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"toko-checkout/internal/app"
	"toko-checkout/internal/config"
	"toko-checkout/internal/models"
	"toko-checkout/internal/repositories"
	"toko-checkout/internal/services"
	"toko-checkout/pkg/logger"
	"toko-checkout/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	fiberApp, cleanup, err := bootstrap(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to start application", zap.Error(err))
	}
	defer cleanup()

	// --- Start HTTP Server ---
	zlog.Info("Starting server", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	zlog.Info("Shutting down server...")

	if err := fiberApp.Shutdown(); err != nil {
		zlog.Error("Error during Fiber shutdown", zap.Error(err))
	}
	zlog.Info("Server gracefully stopped")
}

// bootstrap opens the database, seeds the admin account and the demo catalog,
// connects the event publisher when configured and builds the app. cleanup
// releases the database and broker connections.
func bootstrap(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (*fiber.App, func(), error) {
	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.AutoMigrate(db); err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	var publisher services.OrderEventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zlog)
		if err != nil {
			// Orders are still placed without a broker; events are best-effort.
			zlog.Warn("RabbitMQ unavailable, order events disabled", zap.Error(err))
		} else {
			publisher = mqClient
		}
	}

	cleanup := func() {
		if mqClient != nil {
			if err := mqClient.Close(); err != nil {
				zlog.Warn("Error closing RabbitMQ client", zap.Error(err))
			}
		}
		if err := sqlDB.Close(); err != nil {
			zlog.Warn("Error closing database", zap.Error(err))
		}
	}

	fiberApp, authService, err := app.NewApp(cfg, db, zlog, publisher)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to seed admin user: %w", err)
		}
	}
	if cfg.AppEnv == "development" {
		seedProducts(ctx, repositories.NewGORMProductRepository(db), zlog)
	}
	return fiberApp, cleanup, nil
}

// seedProducts populates an empty catalog with some initial data.
func seedProducts(ctx context.Context, repo repositories.ProductRepository, zlog *zap.Logger) {
	existing, err := repo.GetAll(ctx)
	if err != nil || len(existing) > 0 {
		return
	}
	products := []models.Product{
		{Name: "Kaos Polos", Description: "Cotton crew neck t-shirt", Category: "apparel", Variants: []models.Variant{
			{Size: "M", UnitPrice: decimal.RequireFromString("89000"), Stock: 25},
			{Size: "L", UnitPrice: decimal.RequireFromString("89000"), Stock: 20},
		}},
		{Name: "Kemeja Flanel", Description: "Long sleeve flannel shirt", Category: "apparel", Variants: []models.Variant{
			{Size: "L", UnitPrice: decimal.RequireFromString("189000"), Stock: 10},
		}},
		{Name: "Topi Baseball", Description: "Adjustable cap", Category: "accessories", Variants: []models.Variant{
			{Size: "ALL", UnitPrice: decimal.RequireFromString("59000"), Stock: 50},
		}},
	}
	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			zlog.Warn("Error seeding product", zap.String("name", products[i].Name), zap.Error(err))
			continue
		}
		zlog.Info("Seeded product", zap.String("name", products[i].Name), zap.String("product_id", products[i].ID))
	}
}
