package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Tx exposes the repositories bound to one unit of work.
type Tx interface {
	Carts() CartRepository
	Inventory() InventoryStore
	Orders() OrderRepository
}

// UnitOfWork runs fn atomically: everything fn writes through tx is committed
// when fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}

// GORMUnitOfWork is a UnitOfWork backed by a database transaction.
type GORMUnitOfWork struct {
	db *gorm.DB
}

// NewGORMUnitOfWork creates a new instance of GORMUnitOfWork.
func NewGORMUnitOfWork(db *gorm.DB) *GORMUnitOfWork {
	return &GORMUnitOfWork{db: db}
}

// Do runs fn inside a transaction.
func (u *GORMUnitOfWork) Do(ctx context.Context, fn func(tx Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(&gormTx{db: txDB})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Carts() CartRepository     { return NewGORMCartRepository(t.db) }
func (t *gormTx) Inventory() InventoryStore { return NewGORMInventoryStore(t.db) }
func (t *gormTx) Orders() OrderRepository   { return NewGORMOrderRepository(t.db) }
