package repositories

import "context"

// InventoryStore owns per-variant stock counts. Stock never goes below zero.
type InventoryStore interface {
	// TryDecrement atomically subtracts qty from the variant's stock when at least
	// qty is available. It reports false, with no change, otherwise.
	TryDecrement(ctx context.Context, variantID string, qty int) (bool, error)
	// Increment adds qty back to the variant's stock.
	Increment(ctx context.Context, variantID string, qty int) error
	// Stock returns the current count.
	Stock(ctx context.Context, variantID string) (int, error)
}
