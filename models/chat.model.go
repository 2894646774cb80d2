package models

import (
	"time"
)

// SystemSenderID is the reserved non-human identity used to post platform
// notifications into a user's chat inbox.
const SystemSenderID uint = 0

// MessageType is the closed set of chat message kinds.
type MessageType string

const (
	MessageText  MessageType = "TEXT"
	MessageImage MessageType = "IMAGE"
)

// IsValid reports whether t is a known message type.
func (t MessageType) IsValid() bool {
	return t == MessageText || t == MessageImage
}

// ChatSession is a persistent buyer-seller conversation thread. ProductID is
// nil only for the system-notification channel between a user and the system
// sender; at most one session exists per (buyer, seller, product) triple.
type ChatSession struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	BuyerID   uint  `gorm:"index;not null" json:"buyer_id"`
	SellerID  uint  `gorm:"index;not null" json:"seller_id"`
	ProductID *uint `gorm:"index" json:"product_id,omitempty"`

	// Denormalized summary of the message table, maintained in the same
	// transaction as message inserts.
	LastMessage string    `gorm:"type:text" json:"last_message"`
	LastTime    time.Time `json:"last_time"`

	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SessionID uint `gorm:"index;not null" json:"session_id"`
	SenderID  uint `gorm:"index" json:"sender_id"`

	Type    MessageType `gorm:"default:'TEXT';size:10" json:"type"`
	Content string      `gorm:"type:text;not null" json:"content"`
	// READ is reserved in MySQL, so the column is named is_read.
	Read bool `gorm:"column:is_read;default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
