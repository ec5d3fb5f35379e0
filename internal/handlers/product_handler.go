package handlers

import (
	"toko-checkout/internal/models"
	"toko-checkout/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the read-only catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterAdminRoutes registers the catalog management routes, each behind guard.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router, guard fiber.Handler) {
	router.Post("/products", guard, h.HandleCreateProduct)
	router.Put("/products/:id", guard, h.HandleUpdateProduct)
	router.Delete("/products/:id", guard, h.HandleDeleteProduct)
	router.Patch("/variants/:id/price", guard, h.HandleUpdateVariantPrice)
	router.Post("/variants/:id/restock", guard, h.HandleRestockVariant)
}

// VariantRequest describes one variant of a new product.
type VariantRequest struct {
	Size      string          `json:"size" validate:"max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock" validate:"gte=0"`
}

// ProductRequest represents the request body for creating or updating a product.
// Variants are only read on create.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,min=3,max=100"`
	Description string           `json:"description" validate:"omitempty,max=500"`
	Category    string           `json:"category" validate:"omitempty,max=50"`
	Variants    []VariantRequest `json:"variants" validate:"dive"`
}

// PriceRequest represents the request body for a price change.
type PriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RestockRequest represents the request body for a restock.
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleSearchProducts finds products by name or category.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.log, "Could not search products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product with its variants.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
	for _, v := range req.Variants {
		product.Variants = append(product.Variants, models.Variant{
			Size:      v.Size,
			UnitPrice: v.UnitPrice,
			Stock:     v.Stock,
		})
	}
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates the descriptive fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), &models.Product{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return respondError(c, h.log, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product " + id + " deleted successfully",
	})
}

// HandleUpdateVariantPrice changes a variant's unit price.
func (h *ProductHandler) HandleUpdateVariantPrice(c *fiber.Ctx) error {
	var req PriceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	variant, err := h.service.UpdateVariantPrice(c.UserContext(), c.Params("id"), req.UnitPrice)
	if err != nil {
		return respondError(c, h.log, "Could not update price", err)
	}
	return c.JSON(variant)
}

// HandleRestockVariant adds stock to a variant.
func (h *ProductHandler) HandleRestockVariant(c *fiber.Ctx) error {
	var req RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	variantID := c.Params("id")
	stock, err := h.service.RestockVariant(c.UserContext(), variantID, req.Quantity)
	if err != nil {
		return respondError(c, h.log, "Could not restock variant", err)
	}
	return c.JSON(fiber.Map{
		"variant_id": variantID,
		"stock":      stock,
	})
}
