package models

import (
	"time"
)

// ProductStatus is the closed set of listing states.
type ProductStatus string

const (
	ProductOnSale   ProductStatus = "ON_SALE"
	ProductReserved ProductStatus = "RESERVED" // reserved for future use, never set by current flows
	ProductSold     ProductStatus = "SOLD"
	ProductDeleted  ProductStatus = "DELETED" // terminal soft delete, row retained
)

// IsValid reports whether s is a known product status.
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductOnSale, ProductReserved, ProductSold, ProductDeleted:
		return true
	}
	return false
}

// Settable reports whether a seller may set s through a direct status update.
// RESERVED is excluded on purpose.
func (s ProductStatus) Settable() bool {
	switch s {
	case ProductOnSale, ProductSold, ProductDeleted:
		return true
	}
	return false
}

func (s ProductStatus) String() string {
	return string(s)
}

type Product struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	SellerID uint `gorm:"index;not null" json:"seller_id"`

	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	// OriginalPrice is the "was" price shown struck through; optional.
	OriginalPrice *float64 `json:"original_price,omitempty"`

	Status     ProductStatus `gorm:"default:'ON_SALE';size:20;index" json:"status"`
	CategoryID *uint         `gorm:"index" json:"category_id,omitempty"`
	Location   string        `gorm:"size:255" json:"location"`
	ViewCount  int64         `gorm:"default:0" json:"view_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductImage rows are owned by their product and replaced wholesale on
// product update.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}
