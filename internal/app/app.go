package app

import (
	"errors"
	"strconv"
	"time"

	"toko-checkout/internal/config"
	"toko-checkout/internal/handlers"
	"toko-checkout/internal/metrics"
	"toko-checkout/internal/middleware"
	"toko-checkout/internal/repositories"
	"toko-checkout/internal/services"
	"toko-checkout/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewApp wires repositories, services and handlers over db and returns the
// Fiber app with every route registered. publisher may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, log *zap.Logger, publisher services.OrderEventPublisher) (*fiber.App, *services.AuthService, error) {
	if db == nil {
		return nil, nil, errors.New("database is required")
	}
	m := metrics.NewCheckoutMetrics()

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	inventory := repositories.NewGORMInventoryStore(db)
	uow := repositories.NewGORMUnitOfWork(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, log)
	productService := services.NewProductService(productRepo, inventory, log)
	cartService := services.NewCartService(cartRepo, productRepo, log)
	orderService := services.NewOrderService(orderRepo)
	checkoutService := services.NewCheckoutService(uow, orderRepo, publisher, m, log, cfg.CheckoutTimeout)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, log)
	productHandler := handlers.NewProductHandler(productService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)

	app := fiber.New(fiber.Config{
		AppName:      "toko-checkout",
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.RequestLogger(log))
	app.Use(countRequests(m))

	// --- Health and metrics ---
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			log.Warn("Health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"database": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"events":   publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Everything else requires a token
	protected := apiV1.Group("", middleware.AuthRequired(authService, log))
	productHandler.RegisterRoutes(protected)
	productHandler.RegisterAdminRoutes(protected, middleware.AdminRequired())
	cartHandler.RegisterRoutes(protected)
	checkoutHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	return app, authService, nil
}

func countRequests(m *metrics.CheckoutMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		// Label values outlive the request; c.Method() points into a reused buffer.
		m.Requests.WithLabelValues(utils.CopyString(c.Method()), strconv.Itoa(status)).Inc()
		return err
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": "Request failed",
		"error":   err.Error(),
	})
}
