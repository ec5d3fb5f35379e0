package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// OrderStatusPending is the only status the checkout engine writes.
	OrderStatusPending OrderStatus = "pending"
)

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID           string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	VariantID         string          `json:"variant_id" gorm:"type:varchar(36);not null;index"`
	Quantity          int             `json:"quantity" gorm:"not null"`
	UnitPriceSnapshot decimal.Decimal `json:"unit_price_snapshot" gorm:"type:decimal(12,2);not null"` // Price at the time of add-to-cart
}

// Order represents a customer order. Orders are append-only once created.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string          `json:"user_id" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_order_user_idem,priority:1"`
	IdempotencyKey *string         `json:"idempotency_key,omitempty" gorm:"type:varchar(100);uniqueIndex:idx_order_user_idem,priority:2"`
	Items          []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	Status         OrderStatus     `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ItemsTotal sums snapshot price × quantity over the order's items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPriceSnapshot.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
