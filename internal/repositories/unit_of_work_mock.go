package repositories

import "context"

// MockUnitOfWork runs fn directly against fixed repositories. There is no
// rollback, so whatever fn wrote before failing stays written.
type MockUnitOfWork struct {
	CartRepo      CartRepository
	InventoryRepo InventoryStore
	OrderRepo     OrderRepository
}

// Do calls fn once.
func (u *MockUnitOfWork) Do(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(u)
}

func (u *MockUnitOfWork) Carts() CartRepository     { return u.CartRepo }
func (u *MockUnitOfWork) Inventory() InventoryStore { return u.InventoryRepo }
func (u *MockUnitOfWork) Orders() OrderRepository   { return u.OrderRepo }
