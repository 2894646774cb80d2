package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/services"
	"github.com/Congmoow/Campus-Market/utils"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// CreateOrderRequest
type CreateOrderRequest struct {
	ProductID uint `json:"product_id"`
}

// Create - POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	view, err := h.Orders.Create(c.UserContext(), utils.CurrentUserID(c), req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(view))
}

// MyOrders - GET /api/orders?role=BUY|SELL&status=...
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	views, err := h.Orders.ListMine(c.UserContext(), utils.CurrentUserID(c), c.Query("role"), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(views))
}

// Detail - GET /api/orders/:id
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid order id"))
	}

	view, err := h.Orders.Detail(c.UserContext(), utils.CurrentUserID(c), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(view))
}

// Ship - PUT /api/orders/:id/ship
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid order id"))
	}

	view, err := h.Orders.Ship(c.UserContext(), utils.CurrentUserID(c), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(view))
}

// Confirm - PUT /api/orders/:id/confirm
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid order id"))
	}

	view, err := h.Orders.ConfirmReceive(c.UserContext(), utils.CurrentUserID(c), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(view))
}
