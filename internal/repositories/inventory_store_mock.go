package repositories

import (
	"context"
	"sync"

	"toko-checkout/internal/apperrors"
)

// MockInventoryStore is an in-memory implementation of InventoryStore.
type MockInventoryStore struct {
	stock map[string]int
	mu    sync.Mutex
}

// NewMockInventoryStore creates a new instance of MockInventoryStore seeded with stock.
func NewMockInventoryStore(stock map[string]int) *MockInventoryStore {
	s := &MockInventoryStore{
		stock: make(map[string]int, len(stock)),
	}
	for id, n := range stock {
		s.stock[id] = n
	}
	return s
}

// TryDecrement subtracts qty when enough stock is available.
func (s *MockInventoryStore) TryDecrement(_ context.Context, variantID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, &apperrors.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.stock[variantID]
	if !ok || current < qty {
		return false, nil
	}
	s.stock[variantID] = current - qty
	return true, nil
}

// Increment adds qty back.
func (s *MockInventoryStore) Increment(_ context.Context, variantID string, qty int) error {
	if qty <= 0 {
		return &apperrors.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stock[variantID]; !ok {
		return &apperrors.NotFoundError{Resource: "variant", ID: variantID}
	}
	s.stock[variantID] += qty
	return nil
}

// Stock returns the current count.
func (s *MockInventoryStore) Stock(_ context.Context, variantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.stock[variantID]
	if !ok {
		return 0, &apperrors.NotFoundError{Resource: "variant", ID: variantID}
	}
	return n, nil
}

// Snapshot returns a copy of every stock count.
func (s *MockInventoryStore) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.stock))
	for id, n := range s.stock {
		out[id] = n
	}
	return out
}
