package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's persisted cart. There is at most one row per
// (user, variant); UnitPriceSnapshot is the variant price when the line was first added.
type CartItem struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string          `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_variant,priority:1"`
	VariantID         string          `json:"variant_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_variant,priority:2"`
	Variant           *Variant        `json:"-" gorm:"foreignKey:VariantID"`
	Quantity          int             `json:"quantity" gorm:"not null"`
	UnitPriceSnapshot decimal.Decimal `json:"unit_price_snapshot" gorm:"type:decimal(12,2);not null"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Subtotal is the line amount at the snapshot price.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.UnitPriceSnapshot.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// CartLine is a cart row joined with display data for rendering.
type CartLine struct {
	ID                string          `json:"id"`
	VariantID         string          `json:"variant_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Size              string          `json:"size"`
	Quantity          int             `json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `json:"unit_price_snapshot"`
	CurrentUnitPrice  decimal.Decimal `json:"current_unit_price"`
	Subtotal          decimal.Decimal `json:"subtotal"`
}

// CartView is the rendered cart of one user.
type CartView struct {
	UserID string          `json:"user_id"`
	Items  []CartLine      `json:"items"`
	Total  decimal.Decimal `json:"total"`
}
