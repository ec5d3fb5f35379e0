package repositories

import (
	"context"

	"toko-checkout/internal/models"

	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GetVariant(ctx context.Context, id string) (*models.Variant, error)
	UpdateVariantPrice(ctx context.Context, id string, price decimal.Decimal) (*models.Variant, error)
}
