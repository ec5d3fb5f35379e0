package handlers

import (
	"toko-checkout/internal/middleware"
	"toko-checkout/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	log      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the cart routes. router must be authenticated.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest represents the request body for changing a cart line.
// A quantity of zero removes the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// HandleGetCart renders the caller's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve cart", err)
	}
	return c.JSON(view)
}

// HandleAddItem adds a variant to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	item, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), req.VariantID, req.Quantity)
	if err != nil {
		return respondError(c, h.log, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	item, err := h.service.UpdateQuantity(c.UserContext(), middleware.UserID(c), c.Params("id"), *req.Quantity)
	if err != nil {
		return respondError(c, h.log, "Could not update cart item", err)
	}
	if item == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, h.log, "Could not remove cart item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
