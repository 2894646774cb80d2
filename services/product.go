package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
)

// ProductListItem is the summary view used by listings, favorites, and chat
// session summaries.
type ProductListItem struct {
	ID           uint                 `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Price        float64              `json:"price"`
	Location     string               `json:"location"`
	Status       models.ProductStatus `json:"status"`
	ViewCount    int64                `json:"view_count"`
	Thumbnail    string               `json:"thumbnail,omitempty"`
	SellerID     uint                 `json:"seller_id"`
	SellerName   string               `json:"seller_name,omitempty"`
	SellerAvatar string               `json:"seller_avatar,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ProductDetail is the full product view.
type ProductDetail struct {
	ID            uint                 `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Price         float64              `json:"price"`
	OriginalPrice *float64             `json:"original_price,omitempty"`
	Status        models.ProductStatus `json:"status"`
	CategoryID    *uint                `json:"category_id,omitempty"`
	CategoryName  string               `json:"category_name,omitempty"`
	Location      string               `json:"location"`
	ViewCount     int64                `json:"view_count"`
	Images        []string             `json:"images"`
	SellerID      uint                 `json:"seller_id"`
	SellerName    string               `json:"seller_name,omitempty"`
	SellerAvatar  string               `json:"seller_avatar,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// CreateProductInput carries a new listing. CategoryName is the
// find-or-create alternative to CategoryID.
type CreateProductInput struct {
	Title         string
	Description   string
	Price         float64
	OriginalPrice *float64
	CategoryID    *uint
	CategoryName  string
	Location      string
	ImageURLs     []string
}

// UpdateProductInput carries a partial listing edit; nil fields stay
// untouched. A non-nil ImageURLs replaces the image set wholesale.
type UpdateProductInput struct {
	Title         *string
	Description   *string
	Price         *float64
	OriginalPrice *float64
	CategoryID    *uint
	CategoryName  string
	Location      *string
	ImageURLs     []string
}

type ProductService struct {
	store store.Store
}

func NewProductService(st store.Store) *ProductService {
	return &ProductService{store: st}
}

// Latest returns the freshest ON_SALE listings for the home page.
func (s *ProductService) Latest(ctx context.Context, limit int) ([]ProductListItem, error) {
	products, err := s.store.LatestProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.listItems(ctx, products)
}

// List returns a filtered, sorted page of listings plus the total count.
func (s *ProductService) List(ctx context.Context, filter store.ProductFilter) ([]ProductListItem, int64, error) {
	products, total, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.listItems(ctx, products)
	return items, total, err
}

// ListBySeller returns one seller's listings, optionally narrowed by status.
func (s *ProductService) ListBySeller(ctx context.Context, sellerID uint, status string, page, size int) ([]ProductListItem, int64, error) {
	var statusFilter *models.ProductStatus
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		st := models.ProductStatus(strings.ToUpper(trimmed))
		statusFilter = &st
	}
	products, total, err := s.store.ListProductsBySeller(ctx, sellerID, statusFilter, page, size)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.listItems(ctx, products)
	return items, total, err
}

// CountBySeller reports how many listings a seller has in the given status.
func (s *ProductService) CountBySeller(ctx context.Context, sellerID uint, status models.ProductStatus) (int64, error) {
	_, total, err := s.store.ListProductsBySeller(ctx, sellerID, &status, 0, 1)
	return total, err
}

// Detail returns the full view of one product.
func (s *ProductService) Detail(ctx context.Context, id uint) (ProductDetail, error) {
	product, err := s.store.ProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ProductDetail{}, notFound("product does not exist")
	}
	if err != nil {
		return ProductDetail{}, err
	}
	return s.detail(ctx, product)
}

// IncreaseViewCount bumps the monotonic view counter. Missing products are a
// silent no-op.
func (s *ProductService) IncreaseViewCount(ctx context.Context, id uint) error {
	return s.store.IncrementProductViews(ctx, id)
}

// Create publishes a new ON_SALE listing with its images.
func (s *ProductService) Create(ctx context.Context, sellerID uint, input CreateProductInput) (ProductDetail, error) {
	if strings.TrimSpace(input.Title) == "" {
		return ProductDetail{}, validation("title must not be blank")
	}
	if input.Price <= 0 {
		return ProductDetail{}, validation("price must be positive")
	}

	var product models.Product
	err := s.store.Transact(ctx, func(tx store.Store) error {
		categoryID, err := s.resolveCategory(ctx, tx, input.CategoryID, input.CategoryName)
		if err != nil {
			return err
		}

		product = models.Product{
			SellerID:      sellerID,
			Title:         input.Title,
			Description:   input.Description,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			Status:        models.ProductOnSale,
			CategoryID:    categoryID,
			Location:      input.Location,
		}
		if err := tx.CreateProduct(ctx, &product); err != nil {
			return err
		}
		return tx.ReplaceProductImages(ctx, product.ID, buildImages(product.ID, input.ImageURLs))
	})
	if err != nil {
		return ProductDetail{}, err
	}
	return s.Detail(ctx, product.ID)
}

// Update applies a partial edit to the seller's own listing.
func (s *ProductService) Update(ctx context.Context, id, sellerID uint, input UpdateProductInput) (ProductDetail, error) {
	err := s.store.Transact(ctx, func(tx store.Store) error {
		product, err := s.ownedProduct(ctx, tx, id, sellerID)
		if err != nil {
			return err
		}

		if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
			product.Title = *input.Title
		}
		if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
			product.Description = *input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.OriginalPrice != nil {
			product.OriginalPrice = input.OriginalPrice
		}
		if input.Location != nil {
			product.Location = *input.Location
		}

		categoryID, err := s.resolveCategory(ctx, tx, input.CategoryID, input.CategoryName)
		if err != nil {
			return err
		}
		if categoryID != nil {
			product.CategoryID = categoryID
		}

		if err := tx.UpdateProduct(ctx, &product); err != nil {
			return err
		}

		if input.ImageURLs != nil {
			return tx.ReplaceProductImages(ctx, product.ID, buildImages(product.ID, input.ImageURLs))
		}
		return nil
	})
	if err != nil {
		return ProductDetail{}, err
	}
	return s.Detail(ctx, id)
}

// UpdateStatus sets a seller-chosen status. Only ON_SALE, SOLD and DELETED
// are externally settable; RESERVED is not reachable here.
func (s *ProductService) UpdateStatus(ctx context.Context, id, sellerID uint, status models.ProductStatus) (ProductDetail, error) {
	err := s.store.Transact(ctx, func(tx store.Store) error {
		product, err := s.ownedProduct(ctx, tx, id, sellerID)
		if err != nil {
			return err
		}
		if !status.Settable() {
			return validation("unsupported product status")
		}
		product.Status = status
		return tx.UpdateProduct(ctx, &product)
	})
	if err != nil {
		return ProductDetail{}, err
	}
	return s.Detail(ctx, id)
}

// SoftDelete forces the listing to DELETED regardless of its current status.
// Calling it on an already-deleted product succeeds again.
func (s *ProductService) SoftDelete(ctx context.Context, id, sellerID uint) error {
	return s.store.Transact(ctx, func(tx store.Store) error {
		product, err := s.ownedProduct(ctx, tx, id, sellerID)
		if err != nil {
			return err
		}
		product.Status = models.ProductDeleted
		return tx.UpdateProduct(ctx, &product)
	})
}

// Categories lists every category.
func (s *ProductService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *ProductService) ownedProduct(ctx context.Context, tx store.Store, id, sellerID uint) (models.Product, error) {
	product, err := tx.ProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, notFound("product does not exist")
	}
	if err != nil {
		return models.Product{}, err
	}
	if product.SellerID != sellerID {
		return models.Product{}, forbidden("you do not own this product")
	}
	return product, nil
}

func (s *ProductService) resolveCategory(ctx context.Context, tx store.Store, categoryID *uint, categoryName string) (*uint, error) {
	if categoryID != nil {
		return categoryID, nil
	}
	if strings.TrimSpace(categoryName) == "" {
		return nil, nil
	}
	category, err := tx.EnsureCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

func buildImages(productID uint, urls []string) []models.ProductImage {
	var images []models.ProductImage
	sortOrder := 0
	for _, url := range urls {
		if strings.TrimSpace(url) == "" {
			continue
		}
		images = append(images, models.ProductImage{
			ProductID: productID,
			URL:       url,
			SortOrder: sortOrder,
		})
		sortOrder++
	}
	return images
}

// ListItem builds the summary view of one product.
func (s *ProductService) ListItem(ctx context.Context, product models.Product) (ProductListItem, error) {
	item := ProductListItem{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		Location:    product.Location,
		Status:      product.Status,
		ViewCount:   product.ViewCount,
		SellerID:    product.SellerID,
		CreatedAt:   product.CreatedAt,
	}

	images, err := s.store.ImagesByProductID(ctx, product.ID)
	if err != nil {
		return item, err
	}
	if len(images) > 0 {
		item.Thumbnail = images[0].URL
	}

	profile, err := s.store.ProfileByUserID(ctx, product.SellerID)
	if err == nil {
		item.SellerName = profile.Nickname
		item.SellerAvatar = profile.AvatarURL
	} else if !errors.Is(err, store.ErrNotFound) {
		return item, err
	}
	return item, nil
}

func (s *ProductService) listItems(ctx context.Context, products []models.Product) ([]ProductListItem, error) {
	items := make([]ProductListItem, 0, len(products))
	for _, product := range products {
		item, err := s.ListItem(ctx, product)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *ProductService) detail(ctx context.Context, product models.Product) (ProductDetail, error) {
	detail := ProductDetail{
		ID:            product.ID,
		Title:         product.Title,
		Description:   product.Description,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Status:        product.Status,
		CategoryID:    product.CategoryID,
		Location:      product.Location,
		ViewCount:     product.ViewCount,
		SellerID:      product.SellerID,
		CreatedAt:     product.CreatedAt,
		Images:        []string{},
	}

	if product.CategoryID != nil {
		category, err := s.store.CategoryByID(ctx, *product.CategoryID)
		if err == nil {
			detail.CategoryName = category.Name
		} else if !errors.Is(err, store.ErrNotFound) {
			return detail, err
		}
	}

	images, err := s.store.ImagesByProductID(ctx, product.ID)
	if err != nil {
		return detail, err
	}
	for _, image := range images {
		detail.Images = append(detail.Images, image.URL)
	}

	profile, err := s.store.ProfileByUserID(ctx, product.SellerID)
	if err == nil {
		detail.SellerName = profile.Nickname
		detail.SellerAvatar = profile.AvatarURL
	} else if !errors.Is(err, store.ErrNotFound) {
		return detail, err
	}
	return detail, nil
}
