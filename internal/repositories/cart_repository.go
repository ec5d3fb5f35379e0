package repositories

import (
	"context"

	"toko-checkout/internal/models"

	"github.com/shopspring/decimal"
)

// CartRepository defines the interface for persisted cart rows.
type CartRepository interface {
	// AddItem inserts a row for (user, variant) with the given price snapshot, or adds
	// qty to the existing row's quantity. The existing snapshot is kept.
	AddItem(ctx context.Context, userID, variantID string, qty int, unitPrice decimal.Decimal) (*models.CartItem, error)
	// UpdateQuantity sets the quantity of one of the user's rows; qty <= 0 removes it.
	UpdateQuantity(ctx context.Context, userID, itemID string, qty int) (*models.CartItem, error)
	// RemoveItem deletes one of the user's rows. Removing an absent row is not an error.
	RemoveItem(ctx context.Context, userID, itemID string) error
	// ListItems returns the user's rows with variant and product preloaded.
	ListItems(ctx context.Context, userID string) ([]models.CartItem, error)
	// LockItems returns the user's rows ordered by variant id, row-locked where the store supports it.
	LockItems(ctx context.Context, userID string) ([]models.CartItem, error)
	// DeleteItems deletes the given rows of the user.
	DeleteItems(ctx context.Context, userID string, itemIDs []string) error
}
