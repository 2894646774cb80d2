package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/services"
	"github.com/Congmoow/Campus-Market/utils"
)

type UserHandler struct {
	Users    *services.UserService
	Products *services.ProductService
}

func NewUserHandler(users *services.UserService, products *services.ProductService) *UserHandler {
	return &UserHandler{Users: users, Products: products}
}

// UpdateProfileRequest carries a partial profile edit.
type UpdateProfileRequest struct {
	Nickname  *string `json:"nickname"`
	AvatarURL *string `json:"avatar_url"`
	Major     *string `json:"major"`
	Grade     *string `json:"grade"`
	Campus    *string `json:"campus"`
	Bio       *string `json:"bio"`
}

// Me - GET /api/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	view, err := h.Users.Profile(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(view))
}

// GetUser - GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid user id"))
	}

	view, err := h.Users.Profile(c.UserContext(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(view))
}

// UpdateProfile - PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	view, err := h.Users.UpdateProfile(c.UserContext(), utils.CurrentUserID(c), services.UpdateProfileInput{
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
		Major:     req.Major,
		Grade:     req.Grade,
		Campus:    req.Campus,
		Bio:       req.Bio,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(view))
}

// MyProducts - GET /api/users/me/products
func (h *UserHandler) MyProducts(c *fiber.Ctx) error {
	return h.sellerProducts(c, utils.CurrentUserID(c))
}

// UserProducts - GET /api/users/:id/products
func (h *UserHandler) UserProducts(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid user id"))
	}
	return h.sellerProducts(c, uint(id))
}

func (h *UserHandler) sellerProducts(c *fiber.Ctx, sellerID uint) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 20)

	items, total, err := h.Products.ListBySeller(c.UserContext(), sellerID, c.Query("status"), page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(models.NewPageResult(items, page, size, total)))
}
