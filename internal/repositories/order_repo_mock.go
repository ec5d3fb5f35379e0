package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Setting CreateErr makes every Create fail with it.
type MockOrderRepository struct {
	CreateErr error

	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order, enforcing one order per (user, idempotency key).
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		return r.CreateErr
	}
	if len(order.Items) == 0 {
		return &apperrors.ValidationError{Field: "items", Reason: "order must contain at least one item"}
	}
	if order.IdempotencyKey != nil {
		for _, o := range r.orders {
			if o.UserID == order.UserID && o.IdempotencyKey != nil && *o.IdempotencyKey == *order.IdempotencyKey {
				return gorm.ErrDuplicatedKey
			}
		}
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "order", ID: id}
	}
	return &order, nil
}

// ListByUser returns one page of the user's orders, newest first.
func (r *MockOrderRepository) ListByUser(_ context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	var mine []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	start := (page - 1) * limit
	if start >= len(mine) {
		return []models.Order{}, int64(len(mine)), nil
	}
	end := start + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[start:end], int64(len(mine)), nil
}

// FindByIdempotencyKey returns the user's order created with key.
func (r *MockOrderRepository) FindByIdempotencyKey(_ context.Context, userID, key string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.UserID == userID && o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			order := o
			return &order, nil
		}
	}
	return nil, &apperrors.NotFoundError{Resource: "order", ID: key}
}

// Count returns the number of stored orders.
func (r *MockOrderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
