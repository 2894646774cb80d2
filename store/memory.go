package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Congmoow/Campus-Market/models"
)

// Memory implements Store with in-process maps. It backs the test suite and
// the dependency-free dev mode; transactions are serialized and rolled back
// by snapshot.
type Memory struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *memData
}

type memData struct {
	users      map[uint]models.User
	profiles   map[uint]models.UserProfile
	products   map[uint]models.Product
	images     map[uint]models.ProductImage
	categories map[uint]models.Category
	favorites  map[uint]models.Favorite
	orders     map[uint]models.Order
	sessions   map[uint]models.ChatSession
	messages   map[uint]models.ChatMessage
	lastID     map[string]uint
}

func newMemData() *memData {
	return &memData{
		users:      make(map[uint]models.User),
		profiles:   make(map[uint]models.UserProfile),
		products:   make(map[uint]models.Product),
		images:     make(map[uint]models.ProductImage),
		categories: make(map[uint]models.Category),
		favorites:  make(map[uint]models.Favorite),
		orders:     make(map[uint]models.Order),
		sessions:   make(map[uint]models.ChatSession),
		messages:   make(map[uint]models.ChatMessage),
		lastID:     make(map[string]uint),
	}
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (d *memData) clone() *memData {
	return &memData{
		users:      cloneMap(d.users),
		profiles:   cloneMap(d.profiles),
		products:   cloneMap(d.products),
		images:     cloneMap(d.images),
		categories: cloneMap(d.categories),
		favorites:  cloneMap(d.favorites),
		orders:     cloneMap(d.orders),
		sessions:   cloneMap(d.sessions),
		messages:   cloneMap(d.messages),
		lastID:     cloneMap(d.lastID),
	}
}

func NewMemory() *Memory {
	return &Memory{data: newMemData()}
}

func (m *Memory) nextID(table string) uint {
	m.data.lastID[table]++
	return m.data.lastID[table]
}

// users

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID("users")
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.data.users[user.ID] = *user
	return nil
}

func (m *Memory) UserByID(_ context.Context, id uint) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.data.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (m *Memory) UserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.data.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) UserByPhone(_ context.Context, phone string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.data.users {
		if user.Phone != nil && *user.Phone == phone {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.data.users[user.ID] = *user
	return nil
}

// profiles

func (m *Memory) CreateProfile(_ context.Context, profile *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile.ID = m.nextID("profiles")
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	m.data.profiles[profile.ID] = *profile
	return nil
}

func (m *Memory) ProfileByUserID(_ context.Context, userID uint) (models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, profile := range m.data.profiles {
		if profile.UserID == userID {
			return profile, nil
		}
	}
	return models.UserProfile{}, ErrNotFound
}

func (m *Memory) UpdateProfile(_ context.Context, profile *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.profiles[profile.ID]; !ok {
		return ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	m.data.profiles[profile.ID] = *profile
	return nil
}

// products

func (m *Memory) CreateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.nextID("products")
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Status == "" {
		product.Status = models.ProductOnSale
	}
	m.data.products[product.ID] = *product
	return nil
}

func (m *Memory) ProductByID(_ context.Context, id uint) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.data.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (m *Memory) UpdateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.products[product.ID]; !ok {
		return ErrNotFound
	}
	product.UpdatedAt = time.Now()
	m.data.products[product.ID] = *product
	return nil
}

func (m *Memory) ListProducts(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Product
	for _, product := range m.data.products {
		if product.Status == models.ProductDeleted {
			continue
		}
		if filter.CategoryID != nil && (product.CategoryID == nil || *product.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(product.Title), strings.ToLower(filter.Keyword)) {
			continue
		}
		matched = append(matched, product)
	}

	switch filter.Sort {
	case "priceAsc":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case "priceDesc":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case "viewDesc":
		sort.Slice(matched, func(i, j int) bool { return matched[i].ViewCount > matched[j].ViewCount })
	default:
		sort.Slice(matched, func(i, j int) bool { return newerFirst(matched[i].CreatedAt, matched[i].ID, matched[j].CreatedAt, matched[j].ID) })
	}

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Size), total, nil
}

func (m *Memory) ListProductsBySeller(_ context.Context, sellerID uint, status *models.ProductStatus, page, size int) ([]models.Product, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Product
	for _, product := range m.data.products {
		if product.SellerID != sellerID {
			continue
		}
		if status != nil && product.Status != *status {
			continue
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool { return newerFirst(matched[i].CreatedAt, matched[i].ID, matched[j].CreatedAt, matched[j].ID) })

	total := int64(len(matched))
	return paginate(matched, page, size), total, nil
}

func (m *Memory) LatestProducts(_ context.Context, limit int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Product
	for _, product := range m.data.products {
		if product.Status == models.ProductOnSale {
			matched = append(matched, product)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return newerFirst(matched[i].CreatedAt, matched[i].ID, matched[j].CreatedAt, matched[j].ID) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *Memory) MarkProductSold(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.data.products[id]
	if !ok || product.Status == models.ProductSold {
		return false, nil
	}
	product.Status = models.ProductSold
	product.UpdatedAt = time.Now()
	m.data.products[id] = product
	return true, nil
}

func (m *Memory) IncrementProductViews(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.data.products[id]
	if !ok {
		return nil
	}
	product.ViewCount++
	product.UpdatedAt = time.Now()
	m.data.products[id] = product
	return nil
}

// product images

func (m *Memory) ReplaceProductImages(_ context.Context, productID uint, images []models.ProductImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, image := range m.data.images {
		if image.ProductID == productID {
			delete(m.data.images, id)
		}
	}
	for i := range images {
		images[i].ID = m.nextID("images")
		images[i].ProductID = productID
		m.data.images[images[i].ID] = images[i]
	}
	return nil
}

func (m *Memory) ImagesByProductID(_ context.Context, productID uint) ([]models.ProductImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var images []models.ProductImage
	for _, image := range m.data.images {
		if image.ProductID == productID {
			images = append(images, image)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].SortOrder < images[j].SortOrder })
	return images, nil
}

// categories

func (m *Memory) EnsureCategory(_ context.Context, name string) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, category := range m.data.categories {
		if category.Name == name {
			return category, nil
		}
	}
	category := models.Category{ID: m.nextID("categories"), Name: name}
	m.data.categories[category.ID] = category
	return category, nil
}

func (m *Memory) CategoryByID(_ context.Context, id uint) (models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	category, ok := m.data.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	return category, nil
}

func (m *Memory) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var categories []models.Category
	for _, category := range m.data.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

// favorites

func (m *Memory) CreateFavorite(_ context.Context, favorite *models.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	favorite.ID = m.nextID("favorites")
	favorite.CreatedAt = time.Now()
	m.data.favorites[favorite.ID] = *favorite
	return nil
}

func (m *Memory) FavoriteByUserProduct(_ context.Context, userID, productID uint) (models.Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, favorite := range m.data.favorites {
		if favorite.UserID == userID && favorite.ProductID == productID {
			return favorite, nil
		}
	}
	return models.Favorite{}, ErrNotFound
}

func (m *Memory) DeleteFavorite(_ context.Context, userID, productID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, favorite := range m.data.favorites {
		if favorite.UserID == userID && favorite.ProductID == productID {
			delete(m.data.favorites, id)
		}
	}
	return nil
}

func (m *Memory) FavoritesByUser(_ context.Context, userID uint) ([]models.Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var favorites []models.Favorite
	for _, favorite := range m.data.favorites {
		if favorite.UserID == userID {
			favorites = append(favorites, favorite)
		}
	}
	sort.Slice(favorites, func(i, j int) bool { return newerFirst(favorites[i].CreatedAt, favorites[i].ID, favorites[j].CreatedAt, favorites[j].ID) })
	return favorites, nil
}

// orders

func (m *Memory) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = m.nextID("orders")
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	m.data.orders[order.ID] = *order
	return nil
}

func (m *Memory) OrderByID(_ context.Context, id uint) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.data.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

func (m *Memory) TransitionOrder(_ context.Context, id uint, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.data.orders[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, status := range from {
		if order.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	m.data.orders[id] = order
	return true, nil
}

func (m *Memory) ListOrders(_ context.Context, userID uint, side string, status *models.OrderStatus) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var orders []models.Order
	for _, order := range m.data.orders {
		if side == models.OrderSideSell {
			if order.SellerID != userID {
				continue
			}
		} else if order.BuyerID != userID {
			continue
		}
		if status != nil && order.Status != *status {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return newerFirst(orders[i].CreatedAt, orders[i].ID, orders[j].CreatedAt, orders[j].ID) })
	return orders, nil
}

// chat

func (m *Memory) CreateSession(_ context.Context, session *models.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = m.nextID("sessions")
	session.CreatedAt = time.Now()
	m.data.sessions[session.ID] = *session
	return nil
}

func (m *Memory) SessionByID(_ context.Context, id uint) (models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.data.sessions[id]
	if !ok {
		return models.ChatSession{}, ErrNotFound
	}
	return session, nil
}

func (m *Memory) SessionByTriple(_ context.Context, buyerID, sellerID, productID uint) (models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, session := range m.data.sessions {
		if session.BuyerID == buyerID && session.SellerID == sellerID &&
			session.ProductID != nil && *session.ProductID == productID {
			return session, nil
		}
	}
	return models.ChatSession{}, ErrNotFound
}

func (m *Memory) SystemSession(_ context.Context, userID uint) (models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, session := range m.data.sessions {
		if session.BuyerID == userID && session.SellerID == models.SystemSenderID && session.ProductID == nil {
			return session, nil
		}
	}
	return models.ChatSession{}, ErrNotFound
}

func (m *Memory) SessionsByUser(_ context.Context, userID uint) ([]models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sessions []models.ChatSession
	for _, session := range m.data.sessions {
		if session.BuyerID == userID || session.SellerID == userID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return newerFirst(sessions[i].LastTime, sessions[i].ID, sessions[j].LastTime, sessions[j].ID) })
	return sessions, nil
}

func (m *Memory) TouchSession(_ context.Context, sessionID uint, lastMessage string, lastTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.data.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	session.LastMessage = lastMessage
	session.LastTime = lastTime
	m.data.sessions[sessionID] = session
	return nil
}

func (m *Memory) CreateMessage(_ context.Context, message *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	message.ID = m.nextID("messages")
	message.CreatedAt = time.Now()
	if message.Type == "" {
		message.Type = models.MessageText
	}
	m.data.messages[message.ID] = *message
	return nil
}

func (m *Memory) MessagesBySession(_ context.Context, sessionID uint) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var messages []models.ChatMessage
	for _, message := range m.data.messages {
		if message.SessionID == sessionID {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (m *Memory) MarkSessionRead(_ context.Context, sessionID, readerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, message := range m.data.messages {
		if message.SessionID == sessionID && message.SenderID != readerID && !message.Read {
			message.Read = true
			m.data.messages[id] = message
		}
	}
	return nil
}

func (m *Memory) CountUnread(_ context.Context, sessionID, viewerID uint) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, message := range m.data.messages {
		if message.SessionID == sessionID && message.SenderID != viewerID && !message.Read {
			count++
		}
	}
	return count, nil
}

// Transact serializes transactions and rolls the whole store back to a
// snapshot when fn fails.
func (m *Memory) Transact(_ context.Context, fn func(Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.data.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.data = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func newerFirst(ti time.Time, idI uint, tj time.Time, idJ uint) bool {
	if ti.Equal(tj) {
		return idI > idJ
	}
	return ti.After(tj)
}

func paginate(products []models.Product, page, size int) []models.Product {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	start := page * size
	if start >= len(products) {
		return nil
	}
	end := start + size
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
