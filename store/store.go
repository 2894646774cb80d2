// Package store is the persistence layer: one Store interface with a GORM
// implementation for production and an in-memory implementation used by
// tests and the dependency-free dev mode.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Congmoow/Campus-Market/models"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows and orders a marketplace product listing.
type ProductFilter struct {
	CategoryID *uint
	Keyword    string // case-insensitive substring match on title
	Sort       string // priceAsc / priceDesc / viewDesc; anything else = newest first
	Page       int    // zero-based
	Size       int
}

// Store defines persistence operations for users, products, favorites,
// orders, and chat.
type Store interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id uint) (models.User, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserByPhone(ctx context.Context, phone string) (models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// profiles
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	ProfileByUserID(ctx context.Context, userID uint) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error

	// products
	CreateProduct(ctx context.Context, product *models.Product) error
	ProductByID(ctx context.Context, id uint) (models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	ListProductsBySeller(ctx context.Context, sellerID uint, status *models.ProductStatus, page, size int) ([]models.Product, int64, error)
	LatestProducts(ctx context.Context, limit int) ([]models.Product, error)
	// MarkProductSold flips the product to SOLD unless it already is,
	// reporting whether a row actually changed.
	MarkProductSold(ctx context.Context, id uint) (bool, error)
	IncrementProductViews(ctx context.Context, id uint) error

	// product images
	ReplaceProductImages(ctx context.Context, productID uint, images []models.ProductImage) error
	ImagesByProductID(ctx context.Context, productID uint) ([]models.ProductImage, error)

	// categories
	// EnsureCategory finds the category with the given unique name or
	// creates it, safe under concurrent writers.
	EnsureCategory(ctx context.Context, name string) (models.Category, error)
	CategoryByID(ctx context.Context, id uint) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	// favorites
	CreateFavorite(ctx context.Context, favorite *models.Favorite) error
	FavoriteByUserProduct(ctx context.Context, userID, productID uint) (models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, productID uint) error
	FavoritesByUser(ctx context.Context, userID uint) ([]models.Favorite, error)

	// orders
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderByID(ctx context.Context, id uint) (models.Order, error)
	// TransitionOrder performs a compare-and-set status change: the order
	// moves to `to` only if its current status is one of `from`, reporting
	// whether the transition happened.
	TransitionOrder(ctx context.Context, id uint, from []models.OrderStatus, to models.OrderStatus) (bool, error)
	// ListOrders returns a user's orders on the given side (BUY = as buyer,
	// SELL = as seller), optionally filtered by status, newest first with id
	// as the tie-break.
	ListOrders(ctx context.Context, userID uint, side string, status *models.OrderStatus) ([]models.Order, error)

	// chat
	CreateSession(ctx context.Context, session *models.ChatSession) error
	SessionByID(ctx context.Context, id uint) (models.ChatSession, error)
	SessionByTriple(ctx context.Context, buyerID, sellerID, productID uint) (models.ChatSession, error)
	// SystemSession looks up the null-product notification channel between
	// userID and the system sender.
	SystemSession(ctx context.Context, userID uint) (models.ChatSession, error)
	SessionsByUser(ctx context.Context, userID uint) ([]models.ChatSession, error)
	TouchSession(ctx context.Context, sessionID uint, lastMessage string, lastTime time.Time) error
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	MessagesBySession(ctx context.Context, sessionID uint) ([]models.ChatMessage, error)
	// MarkSessionRead flips read=true on every message in the session not
	// sent by readerID.
	MarkSessionRead(ctx context.Context, sessionID, readerID uint) error
	CountUnread(ctx context.Context, sessionID, viewerID uint) (int64, error)

	// Transact runs fn inside one atomic unit of work. Mutations made
	// through the Store passed to fn either all commit or all roll back.
	Transact(ctx context.Context, fn func(Store) error) error
}
