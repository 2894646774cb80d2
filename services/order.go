package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
)

// Order-lifecycle notifications posted into the buyer/seller chat session.
const (
	msgOrderPlaced  = "I've placed an order, please ship soon~"
	msgOrderShipped = "I've shipped the item, please keep an eye out~"
	msgOrderDone    = "I've confirmed receipt, this deal is complete~"
)

// OrderView denormalizes the order row with product and counterparty display
// fields. Price and meet location come from the order's snapshot, never from
// the live product.
type OrderView struct {
	ID           uint               `json:"id"`
	Status       models.OrderStatus `json:"status"`
	ProductID    uint               `json:"product_id"`
	Price        float64            `json:"price"`
	MeetLocation string             `json:"meet_location"`
	MeetTime     *time.Time         `json:"meet_time,omitempty"`
	ProductTitle string             `json:"product_title,omitempty"`
	ProductImage string             `json:"product_image,omitempty"`
	BuyerID      uint               `json:"buyer_id"`
	BuyerName    string             `json:"buyer_name,omitempty"`
	BuyerAvatar  string             `json:"buyer_avatar,omitempty"`
	SellerID     uint               `json:"seller_id"`
	SellerName   string             `json:"seller_name,omitempty"`
	SellerAvatar string             `json:"seller_avatar,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

type OrderService struct {
	store store.Store
	chat  *ChatService
}

func NewOrderService(st store.Store, chat *ChatService) *OrderService {
	return &OrderService{store: st, chat: chat}
}

// Create places an order on an ON_SALE product, snapshotting its price and
// meet location, and notifies the seller in the shared chat session. The
// order row, the session, and the message commit atomically.
func (s *OrderService) Create(ctx context.Context, buyerID, productID uint) (OrderView, error) {
	if productID == 0 {
		return OrderView{}, validation("productId is required")
	}

	var order models.Order
	err := s.store.Transact(ctx, func(tx store.Store) error {
		product, err := tx.ProductByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("product does not exist")
		}
		if err != nil {
			return err
		}
		if product.SellerID == buyerID {
			return forbidden("cannot buy your own product")
		}
		if product.Status != models.ProductOnSale {
			return invalidState("product is not available for purchase")
		}

		order = models.Order{
			BuyerID:       buyerID,
			SellerID:      product.SellerID,
			ProductID:     product.ID,
			PriceSnapshot: product.Price,
			MeetLocation:  product.Location,
			Status:        models.OrderPending,
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}
		return s.chat.orderEvent(ctx, tx, order.BuyerID, order.SellerID, order.ProductID, order.BuyerID, msgOrderPlaced)
	})
	if err != nil {
		return OrderView{}, err
	}
	return s.view(ctx, order)
}

// Ship lets the seller mark a PENDING order SHIPPED.
func (s *OrderService) Ship(ctx context.Context, userID, orderID uint) (OrderView, error) {
	var order models.Order
	err := s.store.Transact(ctx, func(tx store.Store) error {
		loaded, err := tx.OrderByID(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("order does not exist")
		}
		if err != nil {
			return err
		}
		// Identity before status, so unauthorized callers learn nothing
		// about the order's state.
		if loaded.SellerID != userID {
			return forbidden("only the seller can ship this order")
		}

		moved, err := tx.TransitionOrder(ctx, orderID, []models.OrderStatus{models.OrderPending}, models.OrderShipped)
		if err != nil {
			return err
		}
		if !moved {
			return invalidState("order cannot be shipped in its current status")
		}
		order = loaded
		order.Status = models.OrderShipped

		return s.chat.orderEvent(ctx, tx, order.BuyerID, order.SellerID, order.ProductID, order.SellerID, msgOrderShipped)
	})
	if err != nil {
		return OrderView{}, err
	}
	return s.view(ctx, order)
}

// ConfirmReceive lets the buyer complete an order from PENDING or SHIPPED
// (skipping the shipment acknowledgment is allowed), and flips the product
// to SOLD exactly once.
func (s *OrderService) ConfirmReceive(ctx context.Context, userID, orderID uint) (OrderView, error) {
	var order models.Order
	err := s.store.Transact(ctx, func(tx store.Store) error {
		loaded, err := tx.OrderByID(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("order does not exist")
		}
		if err != nil {
			return err
		}
		if loaded.BuyerID != userID {
			return forbidden("only the buyer can confirm receipt")
		}

		moved, err := tx.TransitionOrder(ctx, orderID,
			[]models.OrderStatus{models.OrderPending, models.OrderShipped}, models.OrderDone)
		if err != nil {
			return err
		}
		if !moved {
			return invalidState("order cannot be completed in its current status")
		}
		order = loaded
		order.Status = models.OrderDone

		// Conditional flip: a no-op when the product is already SOLD, no
		// matter how many orders reference it.
		if _, err := tx.MarkProductSold(ctx, order.ProductID); err != nil {
			return err
		}

		return s.chat.orderEvent(ctx, tx, order.BuyerID, order.SellerID, order.ProductID, order.BuyerID, msgOrderDone)
	})
	if err != nil {
		return OrderView{}, err
	}
	return s.view(ctx, order)
}

// ListMine returns the caller's orders on the BUY or SELL side, newest
// first. status is a case-insensitive equality filter; blank or "ALL" means
// unfiltered.
func (s *OrderService) ListMine(ctx context.Context, userID uint, role, status string) ([]OrderView, error) {
	side := models.OrderSideBuy
	if strings.EqualFold(role, models.OrderSideSell) {
		side = models.OrderSideSell
	}

	var statusFilter *models.OrderStatus
	if trimmed := strings.TrimSpace(status); trimmed != "" && !strings.EqualFold(trimmed, "ALL") {
		st := models.OrderStatus(strings.ToUpper(trimmed))
		statusFilter = &st
	}

	orders, err := s.store.ListOrders(ctx, userID, side, statusFilter)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view, err := s.view(ctx, order)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Detail returns one order; only its buyer or seller may look.
func (s *OrderService) Detail(ctx context.Context, userID, orderID uint) (OrderView, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return OrderView{}, notFound("order does not exist")
	}
	if err != nil {
		return OrderView{}, err
	}
	if order.BuyerID != userID && order.SellerID != userID {
		return OrderView{}, forbidden("you are not a party of this order")
	}
	return s.view(ctx, order)
}

func (s *OrderService) view(ctx context.Context, order models.Order) (OrderView, error) {
	view := OrderView{
		ID:           order.ID,
		Status:       order.Status,
		ProductID:    order.ProductID,
		Price:        order.PriceSnapshot,
		MeetLocation: order.MeetLocation,
		MeetTime:     order.MeetTime,
		BuyerID:      order.BuyerID,
		SellerID:     order.SellerID,
		CreatedAt:    order.CreatedAt,
	}

	product, err := s.store.ProductByID(ctx, order.ProductID)
	if err == nil {
		view.ProductTitle = product.Title
		images, err := s.store.ImagesByProductID(ctx, product.ID)
		if err != nil {
			return view, err
		}
		if len(images) > 0 {
			view.ProductImage = images[0].URL
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return view, err
	}

	if profile, err := s.store.ProfileByUserID(ctx, order.BuyerID); err == nil {
		view.BuyerName = profile.Nickname
		view.BuyerAvatar = profile.AvatarURL
	} else if !errors.Is(err, store.ErrNotFound) {
		return view, err
	}
	if profile, err := s.store.ProfileByUserID(ctx, order.SellerID); err == nil {
		view.SellerName = profile.Nickname
		view.SellerAvatar = profile.AvatarURL
	} else if !errors.Is(err, store.ErrNotFound) {
		return view, err
	}
	return view, nil
}
