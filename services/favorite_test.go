package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRoundTrip(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	product := e.createProduct(t, seller.ID, "backpack", 18)

	require.NoError(t, e.favorites.Add(ctx, buyer.ID, product.ID))
	// Favoriting twice leaves exactly one bookmark.
	require.NoError(t, e.favorites.Add(ctx, buyer.ID, product.ID))

	items, err := e.favorites.ListMine(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ID)
	assert.Equal(t, "seller", items[0].SellerName)

	require.NoError(t, e.favorites.Remove(ctx, buyer.ID, product.ID))
	// Removing again is a no-op.
	require.NoError(t, e.favorites.Remove(ctx, buyer.ID, product.ID))

	items, err = e.favorites.ListMine(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFavoriteRejectsMissingOrDeletedProduct(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	product := e.createProduct(t, seller.ID, "lamp", 9)

	assert.ErrorIs(t, e.favorites.Add(ctx, buyer.ID, 9999), ErrNotFound)

	require.NoError(t, e.products.SoftDelete(ctx, product.ID, seller.ID))
	assert.ErrorIs(t, e.favorites.Add(ctx, buyer.ID, product.ID), ErrValidation)
}

func TestFavoriteListSkipsDeletedProducts(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	kept := e.createProduct(t, seller.ID, "kept", 10)
	doomed := e.createProduct(t, seller.ID, "doomed", 10)

	require.NoError(t, e.favorites.Add(ctx, buyer.ID, kept.ID))
	require.NoError(t, e.favorites.Add(ctx, buyer.ID, doomed.ID))

	require.NoError(t, e.products.SoftDelete(ctx, doomed.ID, seller.ID))

	items, err := e.favorites.ListMine(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)
}
