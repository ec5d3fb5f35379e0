package services

import (
	"context"
	"strings"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"
	"toko-checkout/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo      repositories.ProductRepository
	inventory repositories.InventoryStore
	log       *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, inventory repositories.InventoryStore, log *zap.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		inventory: inventory,
		log:       log,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	return products, apperrors.Store("list products", err)
}

// SearchProducts finds products by name or category.
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &apperrors.ValidationError{Field: "q", Reason: "is required"}
	}
	products, err := s.repo.Search(ctx, query)
	return products, apperrors.Store("search products", err)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Store("get product", err)
	}
	return product, nil
}

// CreateProduct creates a new product with its variants.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return &apperrors.ValidationError{Field: "name", Reason: "is required"}
	}
	for _, v := range product.Variants {
		if !v.UnitPrice.IsPositive() {
			return &apperrors.ValidationError{Field: "unit_price", Reason: "must be greater than zero"}
		}
		if v.Stock < 0 {
			return &apperrors.ValidationError{Field: "stock", Reason: "must not be negative"}
		}
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return apperrors.Store("create product", err)
	}
	s.log.Info("Product created", zap.String("product_id", product.ID), zap.Int("variants", len(product.Variants)))
	return nil
}

// UpdateProduct updates the descriptive fields of a product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, &apperrors.ValidationError{Field: "name", Reason: "is required"}
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, apperrors.Store("update product", err)
	}
	return s.GetProductByID(ctx, product.ID)
}

// DeleteProduct soft-deletes a product and its variants.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Store("delete product", err)
	}
	s.log.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// UpdateVariantPrice changes the price future cart lines are snapshotted at.
func (s *ProductService) UpdateVariantPrice(ctx context.Context, variantID string, price decimal.Decimal) (*models.Variant, error) {
	if !price.IsPositive() {
		return nil, &apperrors.ValidationError{Field: "unit_price", Reason: "must be greater than zero"}
	}
	variant, err := s.repo.UpdateVariantPrice(ctx, variantID, price)
	if err != nil {
		return nil, apperrors.Store("update variant price", err)
	}
	s.log.Info("Variant price updated", zap.String("variant_id", variantID), zap.String("unit_price", price.StringFixed(2)))
	return variant, nil
}

// RestockVariant adds qty units to a variant's stock and returns the new count.
func (s *ProductService) RestockVariant(ctx context.Context, variantID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, &apperrors.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if _, err := s.repo.GetVariant(ctx, variantID); err != nil {
		return 0, apperrors.Store("restock variant", err)
	}
	if err := s.inventory.Increment(ctx, variantID, qty); err != nil {
		return 0, apperrors.Store("restock variant", err)
	}
	stock, err := s.inventory.Stock(ctx, variantID)
	if err != nil {
		return 0, apperrors.Store("restock variant", err)
	}
	s.log.Info("Variant restocked", zap.String("variant_id", variantID), zap.Int("quantity", qty), zap.Int("stock", stock))
	return stock, nil
}
