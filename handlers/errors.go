package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/services"
)

// respondError maps the service failure taxonomy onto HTTP status codes.
// Unclassified faults become a generic 500 so internals never leak.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("internal server error"))
	}
}
