package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Congmoow/Campus-Market/models"
)

func TestTransactRollsBackOnError(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	boom := errors.New("boom")
	err := m.Transact(ctx, func(tx Store) error {
		if err := tx.CreateUser(ctx, &models.User{Username: "ghost"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = m.UserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionOrderCompareAndSwap(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	order := models.Order{BuyerID: 1, SellerID: 2, ProductID: 3, Status: models.OrderPending}
	require.NoError(t, m.CreateOrder(ctx, &order))

	moved, err := m.TransitionOrder(ctx, order.ID, []models.OrderStatus{models.OrderPending}, models.OrderShipped)
	require.NoError(t, err)
	assert.True(t, moved)

	// Same precondition no longer holds.
	moved, err = m.TransitionOrder(ctx, order.ID, []models.OrderStatus{models.OrderPending}, models.OrderShipped)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = m.TransitionOrder(ctx, order.ID,
		[]models.OrderStatus{models.OrderPending, models.OrderShipped}, models.OrderDone)
	require.NoError(t, err)
	assert.True(t, moved)

	// Unknown order.
	moved, err = m.TransitionOrder(ctx, 9999, []models.OrderStatus{models.OrderPending}, models.OrderShipped)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestMarkProductSoldFlipsOnce(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	product := models.Product{SellerID: 1, Title: "bike", Price: 50}
	require.NoError(t, m.CreateProduct(ctx, &product))

	flipped, err := m.MarkProductSold(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = m.MarkProductSold(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	stored, err := m.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductSold, stored.Status)
}
