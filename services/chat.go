package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
)

// Display identity for the system-notification channel when the partner has
// no real profile.
const (
	systemSenderName   = "System Notice"
	systemSenderAvatar = "https://api.dicebear.com/7.x/bottts/svg?seed=system-notice"
)

// SessionView is what the chat inbox renders per conversation.
type SessionView struct {
	ID               uint      `json:"id"`
	ProductID        *uint     `json:"product_id,omitempty"`
	LastMessage      string    `json:"last_message"`
	LastTime         time.Time `json:"last_time"`
	PartnerID        uint      `json:"partner_id"`
	PartnerName      string    `json:"partner_name,omitempty"`
	PartnerAvatar    string    `json:"partner_avatar,omitempty"`
	UnreadCount      int64     `json:"unread_count"`
	ProductTitle     string    `json:"product_title,omitempty"`
	ProductThumbnail string    `json:"product_thumbnail,omitempty"`
	ProductPrice     float64   `json:"product_price,omitempty"`
}

type MessageView struct {
	ID        uint               `json:"id"`
	SenderID  uint               `json:"sender_id"`
	Type      models.MessageType `json:"type"`
	Content   string             `json:"content"`
	Read      bool               `json:"read"`
	CreatedAt time.Time          `json:"created_at"`
}

type ChatService struct {
	store    store.Store
	products *ProductService
}

func NewChatService(st store.Store, products *ProductService) *ChatService {
	return &ChatService{store: st, products: products}
}

// ListSessions returns the caller's conversations, newest activity first,
// with on-demand unread counts.
func (s *ChatService) ListSessions(ctx context.Context, userID uint) ([]SessionView, error) {
	sessions, err := s.store.SessionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		view, err := s.sessionView(ctx, session, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ListMessages returns a session's messages oldest first. As a side effect
// every message from the other party is flipped to read (read-on-view).
func (s *ChatService) ListMessages(ctx context.Context, sessionID, userID uint) ([]MessageView, error) {
	var messages []models.ChatMessage
	err := s.store.Transact(ctx, func(tx store.Store) error {
		session, err := s.participantSession(ctx, tx, sessionID, userID)
		if err != nil {
			return err
		}
		if err := tx.MarkSessionRead(ctx, session.ID, userID); err != nil {
			return err
		}
		messages, err = tx.MessagesBySession(ctx, session.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, messageView(message))
	}
	return views, nil
}

// MarkAllAsRead sweeps every session the user participates in, for the
// global "clear unread" action.
func (s *ChatService) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.store.Transact(ctx, func(tx store.Store) error {
		sessions, err := tx.SessionsByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if err := tx.MarkSessionRead(ctx, session.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

// StartChat finds or creates the unique session between the caller and the
// product's seller.
func (s *ChatService) StartChat(ctx context.Context, userID, productID uint) (SessionView, error) {
	if productID == 0 {
		return SessionView{}, validation("productId is required")
	}

	var session models.ChatSession
	err := s.store.Transact(ctx, func(tx store.Store) error {
		product, err := tx.ProductByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("product does not exist")
		}
		if err != nil {
			return err
		}
		if product.SellerID == userID {
			return forbidden("cannot start a chat with yourself")
		}
		session, err = s.ensureProductSession(ctx, tx, userID, product.SellerID, product.ID)
		return err
	})
	if err != nil {
		return SessionView{}, err
	}
	return s.sessionView(ctx, session, userID)
}

// SendMessage appends a message from a participant and refreshes the
// session's denormalized summary in the same transaction.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, userID uint, content string, msgType models.MessageType) (MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return MessageView{}, validation("message content must not be blank")
	}
	if msgType == "" {
		msgType = models.MessageText
	}
	if !msgType.IsValid() {
		return MessageView{}, validation("unsupported message type")
	}

	var message models.ChatMessage
	err := s.store.Transact(ctx, func(tx store.Store) error {
		session, err := s.participantSession(ctx, tx, sessionID, userID)
		if err != nil {
			return err
		}
		message, err = s.append(ctx, tx, session.ID, userID, msgType, content)
		return err
	})
	if err != nil {
		return MessageView{}, err
	}
	return messageView(message), nil
}

// SendSystemMessageToUser posts a platform notification into the target's
// system channel. Only trusted internal callers reach this; the HTTP surface
// gates it behind the admin role.
func (s *ChatService) SendSystemMessageToUser(ctx context.Context, targetUserID uint, content string) (MessageView, error) {
	if targetUserID == 0 {
		return MessageView{}, validation("userId is required")
	}
	if strings.TrimSpace(content) == "" {
		return MessageView{}, validation("message content must not be blank")
	}

	var message models.ChatMessage
	err := s.store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.ProfileByUserID(ctx, targetUserID); errors.Is(err, store.ErrNotFound) {
			return notFound("user does not exist")
		} else if err != nil {
			return err
		}

		session, err := tx.SystemSession(ctx, targetUserID)
		if errors.Is(err, store.ErrNotFound) {
			session = models.ChatSession{
				BuyerID:  targetUserID,
				SellerID: models.SystemSenderID,
				LastTime: time.Now(),
			}
			if err := tx.CreateSession(ctx, &session); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		message, err = s.append(ctx, tx, session.ID, models.SystemSenderID, models.MessageText, content)
		return err
	})
	if err != nil {
		return MessageView{}, err
	}
	return messageView(message), nil
}

// orderEvent posts an order-lifecycle message into the shared
// (buyer, seller, product) session on behalf of senderID. It runs on the
// caller's transaction so the notification commits with the transition.
func (s *ChatService) orderEvent(ctx context.Context, tx store.Store, buyerID, sellerID, productID, senderID uint, content string) error {
	session, err := s.ensureProductSession(ctx, tx, buyerID, sellerID, productID)
	if err != nil {
		return err
	}
	_, err = s.append(ctx, tx, session.ID, senderID, models.MessageText, content)
	return err
}

func (s *ChatService) ensureProductSession(ctx context.Context, tx store.Store, buyerID, sellerID, productID uint) (models.ChatSession, error) {
	session, err := tx.SessionByTriple(ctx, buyerID, sellerID, productID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.ChatSession{}, err
	}
	session = models.ChatSession{
		BuyerID:   buyerID,
		SellerID:  sellerID,
		ProductID: &productID,
		LastTime:  time.Now(),
	}
	err = tx.CreateSession(ctx, &session)
	return session, err
}

func (s *ChatService) append(ctx context.Context, tx store.Store, sessionID, senderID uint, msgType models.MessageType, content string) (models.ChatMessage, error) {
	message := models.ChatMessage{
		SessionID: sessionID,
		SenderID:  senderID,
		Type:      msgType,
		Content:   content,
	}
	if err := tx.CreateMessage(ctx, &message); err != nil {
		return models.ChatMessage{}, err
	}
	return message, tx.TouchSession(ctx, sessionID, content, message.CreatedAt)
}

func (s *ChatService) participantSession(ctx context.Context, tx store.Store, sessionID, userID uint) (models.ChatSession, error) {
	session, err := tx.SessionByID(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return models.ChatSession{}, notFound("session does not exist")
	}
	if err != nil {
		return models.ChatSession{}, err
	}
	if session.BuyerID != userID && session.SellerID != userID {
		return models.ChatSession{}, forbidden("you are not a participant of this session")
	}
	return session, nil
}

func (s *ChatService) sessionView(ctx context.Context, session models.ChatSession, viewerID uint) (SessionView, error) {
	view := SessionView{
		ID:          session.ID,
		ProductID:   session.ProductID,
		LastMessage: session.LastMessage,
		LastTime:    session.LastTime,
	}

	partnerID := session.SellerID
	if session.BuyerID != viewerID {
		partnerID = session.BuyerID
	}
	view.PartnerID = partnerID

	profile, err := s.store.ProfileByUserID(ctx, partnerID)
	switch {
	case err == nil:
		view.PartnerName = profile.Nickname
		view.PartnerAvatar = profile.AvatarURL
	case errors.Is(err, store.ErrNotFound):
		if partnerID == models.SystemSenderID {
			view.PartnerName = systemSenderName
			view.PartnerAvatar = systemSenderAvatar
		}
	default:
		return view, err
	}

	unread, err := s.store.CountUnread(ctx, session.ID, viewerID)
	if err != nil {
		return view, err
	}
	view.UnreadCount = unread

	if session.ProductID != nil {
		product, err := s.store.ProductByID(ctx, *session.ProductID)
		if err == nil {
			item, err := s.products.ListItem(ctx, product)
			if err != nil {
				return view, err
			}
			view.ProductTitle = item.Title
			view.ProductThumbnail = item.Thumbnail
			view.ProductPrice = item.Price
		} else if !errors.Is(err, store.ErrNotFound) {
			return view, err
		}
	}
	return view, nil
}

func messageView(message models.ChatMessage) MessageView {
	return MessageView{
		ID:        message.ID,
		SenderID:  message.SenderID,
		Type:      message.Type,
		Content:   message.Content,
		Read:      message.Read,
		CreatedAt: message.CreatedAt,
	}
}
