package handlers

import (
	"toko-checkout/internal/middleware"
	"toko-checkout/internal/services"
	"toko-checkout/pkg/idempotency"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutHandler handles HTTP requests that turn the cart into an order.
type CheckoutHandler struct {
	service *services.CheckoutService
	log     *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the checkout route. router must be authenticated.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
}

// CheckoutRequest is the optional request body of a checkout.
type CheckoutRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

// HandleCheckout places an order for the caller's cart. The idempotency key is
// read from the Idempotency-Key header, then from the body. A replayed order is
// answered with 200 instead of 201.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}
	key := idempotency.Key(c, req.IdempotencyKey)

	res, err := h.service.Checkout(c.UserContext(), middleware.UserID(c), key)
	if err != nil {
		return respondError(c, h.log, "Checkout failed", err)
	}

	status := fiber.StatusCreated
	if res.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(res.Order)
}
