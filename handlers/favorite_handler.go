package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/services"
	"github.com/Congmoow/Campus-Market/utils"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Favorites: favorites}
}

// List - GET /api/favorites
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	items, err := h.Favorites.ListMine(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(items))
}

// Add - POST /api/favorites/:productId
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid product id"))
	}

	if err := h.Favorites.Add(c.UserContext(), utils.CurrentUserID(c), uint(productID)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil))
}

// Remove - DELETE /api/favorites/:productId
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid product id"))
	}

	if err := h.Favorites.Remove(c.UserContext(), utils.CurrentUserID(c), uint(productID)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil))
}
