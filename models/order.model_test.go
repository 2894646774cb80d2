package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	assert.True(t, OrderPending.CanTransition(OrderShipped))
	assert.True(t, OrderPending.CanTransition(OrderDone))
	assert.True(t, OrderShipped.CanTransition(OrderDone))

	// No backward or repeated moves, DONE is terminal.
	assert.False(t, OrderShipped.CanTransition(OrderPending))
	assert.False(t, OrderShipped.CanTransition(OrderShipped))
	assert.False(t, OrderDone.CanTransition(OrderPending))
	assert.False(t, OrderDone.CanTransition(OrderShipped))
}

func TestProductStatusSettable(t *testing.T) {
	assert.True(t, ProductOnSale.Settable())
	assert.True(t, ProductSold.Settable())
	assert.True(t, ProductDeleted.Settable())
	assert.False(t, ProductReserved.Settable())
	assert.False(t, ProductStatus("BROKEN").Settable())
}
