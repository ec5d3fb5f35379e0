package repositories_test

import (
	"context"
	"testing"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/models"
	"toko-checkout/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	ctx := context.Background()

	product := &models.Product{
		Name:     "Kemeja Batik",
		Category: "apparel",
		Variants: []models.Variant{
			{Size: "M", UnitPrice: decimal.RequireFromString("150000"), Stock: 4},
			{Size: "L", UnitPrice: decimal.RequireFromString("155000"), Stock: 2},
		},
	}
	require.NoError(t, repo.Create(ctx, product))
	require.NotEmpty(t, product.ID)
	require.Len(t, product.Variants, 2)

	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kemeja Batik", got.Name)
	assert.Len(t, got.Variants, 2)

	product.Name = "Kemeja Batik Tulis"
	require.NoError(t, repo.Update(ctx, product))
	got, err = repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kemeja Batik Tulis", got.Name)

	var nfe *apperrors.NotFoundError
	assert.ErrorAs(t, repo.Update(ctx, &models.Product{ID: "missing", Name: "x"}), &nfe)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.GetByID(ctx, product.ID)
	assert.ErrorAs(t, err, &nfe)
	_, err = repo.GetVariant(ctx, product.Variants[0].ID)
	assert.ErrorAs(t, err, &nfe, "variants go with their product")
	assert.ErrorAs(t, repo.Delete(ctx, product.ID), &nfe)
}

func TestProductRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Sepatu Lari", Category: "footwear"}))
	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Kaos Lari", Category: "apparel"}))
	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Topi", Category: "Apparel"}))

	byName, err := repo.Search(ctx, "lari")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byCategory, err := repo.Search(ctx, "APPAREL")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepository_UpdateVariantPrice(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	ctx := context.Background()
	v := seedVariant(t, db, "10.00", 1)

	updated, err := repo.UpdateVariantPrice(ctx, v.ID, decimal.RequireFromString("12.25"))
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("12.25")))
	require.NotNil(t, updated.Product)

	_, err = repo.UpdateVariantPrice(ctx, "missing", decimal.RequireFromString("1"))
	var nfe *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nfe)
}
