package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
)

func TestProductCreateValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")

	_, err := e.products.Create(ctx, seller.ID, CreateProductInput{Title: "  ", Price: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.products.Create(ctx, seller.ID, CreateProductInput{Title: "free stuff", Price: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductCreateWithCategoryName(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")

	first, err := e.products.Create(ctx, seller.ID, CreateProductInput{
		Title:        "linear algebra notes",
		Price:        5,
		CategoryName: "Books",
	})
	require.NoError(t, err)
	require.NotNil(t, first.CategoryID)
	assert.Equal(t, "Books", first.CategoryName)

	// Same name resolves to the same category instead of a duplicate.
	second, err := e.products.Create(ctx, seller.ID, CreateProductInput{
		Title:        "physics notes",
		Price:        5,
		CategoryName: "Books",
	})
	require.NoError(t, err)
	require.NotNil(t, second.CategoryID)
	assert.Equal(t, *first.CategoryID, *second.CategoryID)

	categories, err := e.products.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestProductUpdatePartial(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	other := e.createUser(t, "other")
	product := e.createProduct(t, seller.ID, "老iphone", 300)

	title := "iphone 12, slightly used"
	updated, err := e.products.Update(ctx, product.ID, seller.ID, UpdateProductInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, 300.0, updated.Price)
	assert.Len(t, updated.Images, 1)

	// Non-owner edits are rejected before any field is touched.
	price := 1.0
	_, err = e.products.Update(ctx, product.ID, other.ID, UpdateProductInput{Price: &price})
	assert.ErrorIs(t, err, ErrForbidden)

	// Replacing images drops the old set wholesale.
	updated, err = e.products.Update(ctx, product.ID, seller.ID, UpdateProductInput{
		ImageURLs: []string{"/uploads/products/a.jpg", "/uploads/products/b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/products/a.jpg", "/uploads/products/b.jpg"}, updated.Images)
}

func TestProductUpdateStatus(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	product := e.createProduct(t, seller.ID, "textbook", 20)

	detail, err := e.products.UpdateStatus(ctx, product.ID, seller.ID, models.ProductSold)
	require.NoError(t, err)
	assert.Equal(t, models.ProductSold, detail.Status)

	detail, err = e.products.UpdateStatus(ctx, product.ID, seller.ID, models.ProductOnSale)
	require.NoError(t, err)
	assert.Equal(t, models.ProductOnSale, detail.Status)

	// RESERVED is not settable through the public status endpoint.
	_, err = e.products.UpdateStatus(ctx, product.ID, seller.ID, models.ProductReserved)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.products.UpdateStatus(ctx, product.ID, seller.ID, "BROKEN")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductSoftDeleteIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	product := e.createProduct(t, seller.ID, "old chair", 8)

	require.NoError(t, e.products.SoftDelete(ctx, product.ID, seller.ID))
	require.NoError(t, e.products.SoftDelete(ctx, product.ID, seller.ID))

	// The row survives; the detail still resolves.
	detail, err := e.products.Detail(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductDeleted, detail.Status)

	// But public listings no longer include it.
	items, _, err := e.products.List(ctx, store.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProductListFilterAndSort(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")

	cheap := e.createProduct(t, seller.ID, "cheap mug", 3)
	mid := e.createProduct(t, seller.ID, "desk fan", 25)
	dear := e.createProduct(t, seller.ID, "road bike", 150)

	items, total, err := e.products.List(ctx, store.ProductFilter{Sort: "priceAsc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, cheap.ID, items[0].ID)
	assert.Equal(t, dear.ID, items[2].ID)

	// Keyword match is case-insensitive on the title.
	items, total, err = e.products.List(ctx, store.ProductFilter{Keyword: "BIKE"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, dear.ID, items[0].ID)

	// Default ordering is newest first.
	items, _, err = e.products.List(ctx, store.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, dear.ID, items[0].ID)
	assert.Equal(t, mid.ID, items[1].ID)
	assert.Equal(t, cheap.ID, items[2].ID)
}

func TestProductLatestOnlyOnSale(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")

	kept := e.createProduct(t, seller.ID, "kept", 10)
	sold := e.createProduct(t, seller.ID, "sold", 10)
	_, err := e.products.UpdateStatus(ctx, sold.ID, seller.ID, models.ProductSold)
	require.NoError(t, err)

	items, err := e.products.Latest(ctx, 8)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)
}

func TestProductViewCounter(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	product := e.createProduct(t, seller.ID, "poster", 2)

	require.NoError(t, e.products.IncreaseViewCount(ctx, product.ID))
	require.NoError(t, e.products.IncreaseViewCount(ctx, product.ID))
	// Unknown ids are a silent no-op.
	require.NoError(t, e.products.IncreaseViewCount(ctx, 9999))

	detail, err := e.products.Detail(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ViewCount)
}
