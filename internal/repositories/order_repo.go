package repositories

import (
	"context"

	"toko-checkout/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are append-only: there is no update or delete.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error)
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*models.Order, error)
}
