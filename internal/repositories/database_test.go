package repositories_test

import (
	"errors"
	"fmt"
	"testing"

	"toko-checkout/internal/models"
	"toko-checkout/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := repositories.OpenDatabase(repositories.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// seedVariant creates a product with one variant and returns the variant.
func seedVariant(t *testing.T, db *gorm.DB, price string, stock int) models.Variant {
	t.Helper()
	product := models.Product{
		ID:       uuid.New().String(),
		Name:     "Kaos Polos " + price,
		Category: "apparel",
		Variants: []models.Variant{{
			ID:        uuid.New().String(),
			Size:      "M",
			UnitPrice: decimal.RequireFromString(price),
			Stock:     stock,
		}},
	}
	require.NoError(t, db.Create(&product).Error)
	return product.Variants[0]
}

func TestOpenDatabase_UnsupportedDriver(t *testing.T) {
	db, err := repositories.OpenDatabase("oracle", "whatever")
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, repositories.IsDuplicateKey(nil))
	assert.False(t, repositories.IsDuplicateKey(errors.New("connection refused")))
	assert.True(t, repositories.IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, repositories.IsDuplicateKey(fmt.Errorf("failed to create order: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, repositories.IsDuplicateKey(errors.New("UNIQUE constraint failed: orders.user_id, orders.idempotency_key")))
}

func TestVariantStockCheckConstraint(t *testing.T) {
	db := setupTestDB(t)
	v := seedVariant(t, db, "10.00", 1)

	err := db.Model(&models.Variant{}).Where("id = ?", v.ID).Update("stock", -1).Error
	assert.Error(t, err, "stock must never go below zero")
}
