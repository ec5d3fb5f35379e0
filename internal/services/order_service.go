package services

import (
	"context"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"
	"toko-checkout/internal/repositories"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// OrderPage is one page of a user's order history.
type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// OrderService handles read access to orders. Orders are only ever written by checkout.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// ListOrders returns the requester's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	orders, total, err := s.orderRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.Store("list orders", err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// GetOrder returns an order to its owner or to an admin. Other callers get a
// NotFoundError so order ids can't be probed.
func (s *OrderService) GetOrder(ctx context.Context, requesterID, role, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Store("get order", err)
	}
	if order.UserID != requesterID && role != models.RoleAdmin {
		return nil, &apperrors.NotFoundError{Resource: "order", ID: id}
	}
	return order, nil
}
