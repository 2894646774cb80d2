package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/services"
	"github.com/Congmoow/Campus-Market/utils"
)

type ChatHandler struct {
	Chats *services.ChatService
}

func NewChatHandler(chats *services.ChatService) *ChatHandler {
	return &ChatHandler{Chats: chats}
}

// StartChatRequest defines the payload for opening a conversation about a
// product.
type StartChatRequest struct {
	ProductID uint `json:"product_id"`
}

// SendMessageRequest
type SendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// SystemNotificationRequest is the admin-only payload for platform notices.
type SystemNotificationRequest struct {
	UserID  uint   `json:"user_id"`
	Content string `json:"content"`
}

// ListSessions - GET /api/chats/sessions
func (h *ChatHandler) ListSessions(c *fiber.Ctx) error {
	views, err := h.Chats.ListSessions(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(views))
}

// MarkAllRead - PUT /api/chats/sessions/read
func (h *ChatHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.Chats.MarkAllAsRead(c.UserContext(), utils.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil))
}

// ListMessages - GET /api/chats/sessions/:sessionId/messages
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	sessionID, err := strconv.Atoi(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid session id"))
	}

	views, err := h.Chats.ListMessages(c.UserContext(), uint(sessionID), utils.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(views))
}

// StartChat - POST /api/chats/sessions
func (h *ChatHandler) StartChat(c *fiber.Ctx) error {
	var req StartChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	view, err := h.Chats.StartChat(c.UserContext(), utils.CurrentUserID(c), req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(view))
}

// SendMessage - POST /api/chats/sessions/:sessionId/messages
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	sessionID, err := strconv.Atoi(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid session id"))
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	view, err := h.Chats.SendMessage(c.UserContext(), uint(sessionID), utils.CurrentUserID(c),
		req.Content, models.MessageType(req.Type))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(view))
}

// SendSystemNotification - POST /api/system/notifications
// Registered behind AdminOnly; end users cannot reach the system sender.
func (h *ChatHandler) SendSystemNotification(c *fiber.Ctx) error {
	var req SystemNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	view, err := h.Chats.SendSystemMessageToUser(c.UserContext(), req.UserID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(view))
}
