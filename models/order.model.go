package models

import (
	"time"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
	OrderShipped OrderStatus = "SHIPPED"
	OrderDone    OrderStatus = "DONE"
)

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderDone:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// orderTransitions is the legality table of the order state machine.
// PENDING→DONE is allowed: a buyer may confirm receipt without the seller
// ever marking shipment (self-pickup flow). No backward moves.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderShipped, OrderDone},
	OrderShipped: {OrderDone},
	OrderDone:    {},
}

// CanTransition reports whether an order may move from s to target.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// OrderSides selectable when listing a user's orders.
const (
	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"
)

type Order struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BuyerID   uint `gorm:"index;not null" json:"buyer_id"`
	SellerID  uint `gorm:"index;not null" json:"seller_id"`
	ProductID uint `gorm:"index;not null" json:"product_id"`

	// Price and meet location are snapshotted at creation time so later
	// edits to the product do not rewrite order history.
	PriceSnapshot float64    `gorm:"not null" json:"price"`
	MeetLocation  string     `gorm:"size:255" json:"meet_location"`
	MeetTime      *time.Time `json:"meet_time,omitempty"`

	Status OrderStatus `gorm:"default:'PENDING';size:20;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
