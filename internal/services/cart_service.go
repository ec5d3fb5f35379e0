package services

import (
	"context"
	"errors"
	"strings"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"
	"toko-checkout/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService manages persisted carts. It never touches stock: availability is
// only decided at checkout.
type CartService struct {
	carts   repositories.CartRepository
	catalog repositories.ProductRepository
	log     *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, catalog repositories.ProductRepository, log *zap.Logger) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
		log:     log,
	}
}

// AddItem adds qty units of a variant to the user's cart, snapshotting the
// variant's current price on a new line.
func (s *CartService) AddItem(ctx context.Context, userID, variantID string, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, &apperrors.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return nil, &apperrors.ValidationError{Field: "variant_id", Reason: "is required"}
	}

	variant, err := s.catalog.GetVariant(ctx, variantID)
	if err != nil {
		var nfe *apperrors.NotFoundError
		if errors.As(err, &nfe) {
			return nil, &apperrors.ValidationError{Field: "variant_id", Reason: "unknown variant " + variantID}
		}
		return nil, apperrors.Store("add to cart", err)
	}

	item, err := s.carts.AddItem(ctx, userID, variant.ID, qty, variant.UnitPrice)
	if err != nil {
		return nil, apperrors.Store("add to cart", err)
	}
	s.log.Debug("Cart item added",
		zap.String("user_id", userID),
		zap.String("variant_id", variant.ID),
		zap.Int("quantity", item.Quantity),
	)
	return item, nil
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or less
// removes the line and returns nil.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, qty int) (*models.CartItem, error) {
	item, err := s.carts.UpdateQuantity(ctx, userID, itemID, qty)
	if err != nil {
		return nil, apperrors.Store("update cart item", err)
	}
	return item, nil
}

// RemoveItem deletes a cart line. Removing an absent line succeeds.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	return apperrors.Store("remove cart item", s.carts.RemoveItem(ctx, userID, itemID))
}

// GetCart renders the user's cart with display data and the total at snapshot prices.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartView, error) {
	items, err := s.carts.ListItems(ctx, userID)
	if err != nil {
		return nil, apperrors.Store("list cart", err)
	}

	view := &models.CartView{
		UserID: userID,
		Items:  make([]models.CartLine, 0, len(items)),
		Total:  decimal.Zero,
	}
	for _, it := range items {
		line := models.CartLine{
			ID:                it.ID,
			VariantID:         it.VariantID,
			Quantity:          it.Quantity,
			UnitPriceSnapshot: it.UnitPriceSnapshot,
			Subtotal:          it.Subtotal(),
		}
		if it.Variant != nil {
			line.Size = it.Variant.Size
			line.CurrentUnitPrice = it.Variant.UnitPrice
			line.ProductID = it.Variant.ProductID
			if it.Variant.Product != nil {
				line.ProductName = it.Variant.Product.Name
			}
		}
		view.Items = append(view.Items, line)
		view.Total = view.Total.Add(line.Subtotal)
	}
	return view, nil
}
