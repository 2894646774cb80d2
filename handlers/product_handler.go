package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/services"
	"github.com/Congmoow/Campus-Market/store"
	"github.com/Congmoow/Campus-Market/utils"
)

type ProductHandler struct {
	Products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{Products: products}
}

// CreateProductRequest
type CreateProductRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	CategoryID    *uint    `json:"category_id"`
	CategoryName  string   `json:"category_name"`
	Location      string   `json:"location"`
	ImageURLs     []string `json:"image_urls"`
}

// UpdateProductRequest carries a partial edit; absent fields stay untouched.
type UpdateProductRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	CategoryID    *uint    `json:"category_id"`
	CategoryName  string   `json:"category_name"`
	Location      *string  `json:"location"`
	ImageURLs     []string `json:"image_urls"`
}

// UpdateStatusRequest carries the seller's target status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GetLatest - GET /api/products/latest
func (h *ProductHandler) GetLatest(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 8)
	items, err := h.Products.Latest(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(items))
}

// List - GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := store.ProductFilter{
		Keyword: c.Query("q"),
		Sort:    c.Query("sort"),
		Page:    c.QueryInt("page", 0),
		Size:    c.QueryInt("size", 20),
	}
	if categoryID := c.QueryInt("category_id", 0); categoryID > 0 {
		id := uint(categoryID)
		filter.CategoryID = &id
	}

	items, total, err := h.Products.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(models.NewPageResult(items, filter.Page, filter.Size, total)))
}

// Detail - GET /api/products/:id
// Every view bumps the monotonic view counter before the detail is loaded.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid product id"))
	}

	ctx := c.UserContext()
	if err := h.Products.IncreaseViewCount(ctx, uint(id)); err != nil {
		return respondError(c, err)
	}
	detail, err := h.Products.Detail(ctx, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(detail))
}

// Create - POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	detail, err := h.Products.Create(c.UserContext(), utils.CurrentUserID(c), services.CreateProductInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		CategoryName:  req.CategoryName,
		Location:      req.Location,
		ImageURLs:     req.ImageURLs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(detail))
}

// Update - PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid product id"))
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	detail, err := h.Products.Update(c.UserContext(), uint(id), utils.CurrentUserID(c), services.UpdateProductInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		CategoryName:  req.CategoryName,
		Location:      req.Location,
		ImageURLs:     req.ImageURLs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(detail))
}

// UpdateStatus - PUT /api/products/:id/status
func (h *ProductHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid product id"))
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	detail, err := h.Products.UpdateStatus(c.UserContext(), uint(id), utils.CurrentUserID(c), models.ProductStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(detail))
}

// Delete - DELETE /api/products/:id
// Soft delete: the row survives with status DELETED.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid product id"))
	}

	if err := h.Products.SoftDelete(c.UserContext(), uint(id), utils.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse("product deleted"))
}

// GetCategories - GET /api/categories
func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Products.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(categories))
}
