package repositories

import (
	"context"
	"errors"
	"fmt"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"

	"gorm.io/gorm"
)

// GORMInventoryStore is a GORM implementation of InventoryStore.
type GORMInventoryStore struct {
	db *gorm.DB
}

// NewGORMInventoryStore creates a new instance of GORMInventoryStore.
func NewGORMInventoryStore(db *gorm.DB) *GORMInventoryStore {
	return &GORMInventoryStore{
		db: db,
	}
}

// TryDecrement is a single conditional UPDATE, so the check and the write can't
// be separated by a concurrent checkout.
func (s *GORMInventoryStore) TryDecrement(ctx context.Context, variantID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, &apperrors.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	res := s.db.WithContext(ctx).Model(&models.Variant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement stock of variant %s: %w", variantID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Increment returns stock to a variant. Soft-deleted variants still take it back.
func (s *GORMInventoryStore) Increment(ctx context.Context, variantID string, qty int) error {
	if qty <= 0 {
		return &apperrors.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	res := s.db.WithContext(ctx).Unscoped().Model(&models.Variant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock of variant %s: %w", variantID, res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "variant", ID: variantID}
	}
	return nil
}

// Stock reads the current count of a purchasable variant.
func (s *GORMInventoryStore) Stock(ctx context.Context, variantID string) (int, error) {
	var v models.Variant
	if err := s.db.WithContext(ctx).Select("id", "stock").First(&v, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &apperrors.NotFoundError{Resource: "variant", ID: variantID}
		}
		return 0, fmt.Errorf("failed to read stock of variant %s: %w", variantID, err)
	}
	return v.Stock, nil
}
