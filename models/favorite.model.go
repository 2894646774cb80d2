package models

import (
	"time"
)

// Favorite is a pure existence relation: one row per (user, product) pair.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_fav_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_fav_user_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}
