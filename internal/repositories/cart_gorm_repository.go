package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// AddItem upserts the (user, variant) row in a single statement so concurrent adds
// of the same variant merge instead of racing on the unique index.
func (r *GORMCartRepository) AddItem(ctx context.Context, userID, variantID string, qty int, unitPrice decimal.Decimal) (*models.CartItem, error) {
	item := models.CartItem{
		ID:                uuid.New().String(),
		UserID:            userID,
		VariantID:         variantID,
		Quantity:          qty,
		UnitPriceSnapshot: unitPrice,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add variant %s to cart: %w", variantID, err)
	}

	var stored models.CartItem
	if err := r.db.WithContext(ctx).First(&stored, "user_id = ? AND variant_id = ?", userID, variantID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cart item for variant %s: %w", variantID, err)
	}
	return &stored, nil
}

// UpdateQuantity sets the quantity of a cart row owned by the user.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, userID, itemID string, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, r.RemoveItem(ctx, userID, itemID)
	}

	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", qty)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &apperrors.NotFoundError{Resource: "cart item", ID: itemID}
	}

	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "cart item", ID: itemID}
		}
		return nil, fmt.Errorf("failed to reload cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// RemoveItem deletes a cart row owned by the user.
func (r *GORMCartRepository) RemoveItem(ctx context.Context, userID, itemID string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to remove cart item %s: %w", itemID, err)
	}
	return nil
}

// ListItems retrieves the user's cart with display data. Soft-deleted variants and
// products are still loaded so stale lines stay visible.
func (r *GORMCartRepository) ListItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }

	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Variant", unscoped).
		Preload("Variant.Product", unscoped).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart of user %s: %w", userID, err)
	}
	return items, nil
}

// LockItems loads the user's cart for checkout. On PostgreSQL the rows are locked
// FOR UPDATE until the surrounding transaction ends; SQLite ignores the clause.
func (r *GORMCartRepository) LockItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("variant_id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to lock cart of user %s: %w", userID, err)
	}
	return items, nil
}

// DeleteItems removes exactly the given rows, leaving anything added since they were read.
func (r *GORMCartRepository) DeleteItems(ctx context.Context, userID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, itemIDs).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart of user %s: %w", userID, err)
	}
	return nil
}
