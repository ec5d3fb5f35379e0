package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products with their variants.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Variants").Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// Search matches products whose name or category contains query, case-insensitively.
func (r *GORMProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Variants").
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", query, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "product", ID: id}
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a product together with its variants.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.New().String()
		}
		product.Variants[i].ProductID = product.ID
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update changes the descriptive fields of a product. Variants, prices and stock
// have their own write paths.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"category":    product.Category,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "product", ID: product.ID}
	}
	return nil
}

// Delete soft-deletes a product and its variants. Order history keeps referring to them.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &apperrors.NotFoundError{Resource: "product", ID: id}
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
			return fmt.Errorf("failed to delete variants of product %s: %w", id, err)
		}
		return nil
	})
}

// GetVariant retrieves a purchasable variant with its product.
func (r *GORMProductRepository) GetVariant(ctx context.Context, id string) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).Preload("Product").First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "variant", ID: id}
		}
		return nil, fmt.Errorf("failed to get variant by ID %s: %w", id, err)
	}
	return &variant, nil
}

// UpdateVariantPrice sets a new unit price. Existing cart snapshots are unaffected.
func (r *GORMProductRepository) UpdateVariantPrice(ctx context.Context, id string, price decimal.Decimal) (*models.Variant, error) {
	res := r.db.WithContext(ctx).Model(&models.Variant{}).Where("id = ?", id).Update("unit_price", price)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update price of variant %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &apperrors.NotFoundError{Resource: "variant", ID: id}
	}
	return r.GetVariant(ctx, id)
}
