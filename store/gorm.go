package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Congmoow/Campus-Market/models"
)

// Gorm implements Store on top of a relational database via GORM.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// users

func (g *Gorm) CreateUser(ctx context.Context, user *models.User) error {
	return g.db.WithContext(ctx).Create(user).Error
}

func (g *Gorm) UserByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := g.db.WithContext(ctx).First(&user, id).Error
	return user, translate(err)
}

func (g *Gorm) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := g.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, translate(err)
}

func (g *Gorm) UserByPhone(ctx context.Context, phone string) (models.User, error) {
	var user models.User
	err := g.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error
	return user, translate(err)
}

func (g *Gorm) UpdateUser(ctx context.Context, user *models.User) error {
	return g.db.WithContext(ctx).Save(user).Error
}

// profiles

func (g *Gorm) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	return g.db.WithContext(ctx).Create(profile).Error
}

func (g *Gorm) ProfileByUserID(ctx context.Context, userID uint) (models.UserProfile, error) {
	var profile models.UserProfile
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	return profile, translate(err)
}

func (g *Gorm) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	return g.db.WithContext(ctx).Save(profile).Error
}

// products

func (g *Gorm) CreateProduct(ctx context.Context, product *models.Product) error {
	return g.db.WithContext(ctx).Create(product).Error
}

func (g *Gorm) ProductByID(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := g.db.WithContext(ctx).First(&product, id).Error
	return product, translate(err)
}

func (g *Gorm) UpdateProduct(ctx context.Context, product *models.Product) error {
	return g.db.WithContext(ctx).Save(product).Error
}

func (g *Gorm) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := g.db.WithContext(ctx).Model(&models.Product{}).
		Where("status <> ?", models.ProductDeleted)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Keyword != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Keyword)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "priceAsc":
		query = query.Order("price asc")
	case "priceDesc":
		query = query.Order("price desc")
	case "viewDesc":
		query = query.Order("view_count desc")
	default:
		query = query.Order("created_at desc")
	}

	size := filter.Size
	if size <= 0 {
		size = 20
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	var products []models.Product
	err := query.Offset(page * size).Limit(size).Find(&products).Error
	return products, total, err
}

func (g *Gorm) ListProductsBySeller(ctx context.Context, sellerID uint, status *models.ProductStatus, page, size int) ([]models.Product, int64, error) {
	query := g.db.WithContext(ctx).Model(&models.Product{}).Where("seller_id = ?", sellerID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}

	var products []models.Product
	err := query.Order("created_at desc").Offset(page * size).Limit(size).Find(&products).Error
	return products, total, err
}

func (g *Gorm) LatestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := g.db.WithContext(ctx).
		Where("status = ?", models.ProductOnSale).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (g *Gorm) MarkProductSold(ctx context.Context, id uint) (bool, error) {
	res := g.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND status <> ?", id, models.ProductSold).
		Updates(map[string]interface{}{
			"status":     models.ProductSold,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *Gorm) IncrementProductViews(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count": gorm.Expr("view_count + 1"),
			"updated_at": time.Now(),
		}).Error
}

// product images

func (g *Gorm) ReplaceProductImages(ctx context.Context, productID uint, images []models.ProductImage) error {
	if err := g.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Create(&images).Error
}

func (g *Gorm) ImagesByProductID(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := g.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order asc").
		Find(&images).Error
	return images, err
}

// categories

func (g *Gorm) EnsureCategory(ctx context.Context, name string) (models.Category, error) {
	// Conflict-handling insert against the unique name index, so two
	// concurrent writers cannot race a duplicate into existence.
	category := models.Category{Name: name}
	if err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&category).Error; err != nil {
		return models.Category{}, err
	}
	err := g.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	return category, translate(err)
}

func (g *Gorm) CategoryByID(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	err := g.db.WithContext(ctx).First(&category, id).Error
	return category, translate(err)
}

func (g *Gorm) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := g.db.WithContext(ctx).Order("id asc").Find(&categories).Error
	return categories, err
}

// favorites

func (g *Gorm) CreateFavorite(ctx context.Context, favorite *models.Favorite) error {
	return g.db.WithContext(ctx).Create(favorite).Error
}

func (g *Gorm) FavoriteByUserProduct(ctx context.Context, userID, productID uint) (models.Favorite, error) {
	var favorite models.Favorite
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&favorite).Error
	return favorite, translate(err)
}

func (g *Gorm) DeleteFavorite(ctx context.Context, userID, productID uint) error {
	return g.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error
}

func (g *Gorm) FavoritesByUser(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favorites).Error
	return favorites, err
}

// orders

func (g *Gorm) CreateOrder(ctx context.Context, order *models.Order) error {
	return g.db.WithContext(ctx).Create(order).Error
}

func (g *Gorm) OrderByID(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := g.db.WithContext(ctx).First(&order, id).Error
	return order, translate(err)
}

func (g *Gorm) TransitionOrder(ctx context.Context, id uint, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	// Compare-and-set on the current status so two concurrent transitions
	// cannot both apply.
	res := g.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *Gorm) ListOrders(ctx context.Context, userID uint, side string, status *models.OrderStatus) ([]models.Order, error) {
	query := g.db.WithContext(ctx).Model(&models.Order{})
	if side == models.OrderSideSell {
		query = query.Where("seller_id = ?", userID)
	} else {
		query = query.Where("buyer_id = ?", userID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []models.Order
	err := query.Order("created_at desc, id desc").Find(&orders).Error
	return orders, err
}

// chat

func (g *Gorm) CreateSession(ctx context.Context, session *models.ChatSession) error {
	return g.db.WithContext(ctx).Create(session).Error
}

func (g *Gorm) SessionByID(ctx context.Context, id uint) (models.ChatSession, error) {
	var session models.ChatSession
	err := g.db.WithContext(ctx).First(&session, id).Error
	return session, translate(err)
}

func (g *Gorm) SessionByTriple(ctx context.Context, buyerID, sellerID, productID uint) (models.ChatSession, error) {
	var session models.ChatSession
	err := g.db.WithContext(ctx).
		Where("buyer_id = ? AND seller_id = ? AND product_id = ?", buyerID, sellerID, productID).
		First(&session).Error
	return session, translate(err)
}

func (g *Gorm) SystemSession(ctx context.Context, userID uint) (models.ChatSession, error) {
	var session models.ChatSession
	err := g.db.WithContext(ctx).
		Where("buyer_id = ? AND seller_id = ? AND product_id IS NULL", userID, models.SystemSenderID).
		First(&session).Error
	return session, translate(err)
}

func (g *Gorm) SessionsByUser(ctx context.Context, userID uint) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := g.db.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("last_time desc").
		Find(&sessions).Error
	return sessions, err
}

func (g *Gorm) TouchSession(ctx context.Context, sessionID uint, lastMessage string, lastTime time.Time) error {
	return g.db.WithContext(ctx).Model(&models.ChatSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"last_message": lastMessage,
			"last_time":    lastTime,
		}).Error
}

func (g *Gorm) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	return g.db.WithContext(ctx).Create(message).Error
}

func (g *Gorm) MessagesBySession(ctx context.Context, sessionID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := g.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc, id asc").
		Find(&messages).Error
	return messages, err
}

func (g *Gorm) MarkSessionRead(ctx context.Context, sessionID, readerID uint) error {
	return g.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("session_id = ? AND sender_id <> ? AND is_read = ?", sessionID, readerID, false).
		Update("is_read", true).Error
}

func (g *Gorm) CountUnread(ctx context.Context, sessionID, viewerID uint) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("session_id = ? AND sender_id <> ? AND is_read = ?", sessionID, viewerID, false).
		Count(&count).Error
	return count, err
}

// Transact runs fn inside a database transaction; the Store handed to fn
// shares that transaction.
func (g *Gorm) Transact(ctx context.Context, fn func(Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}
