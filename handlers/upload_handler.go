package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Congmoow/Campus-Market/models"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var allowedUploadTypes = map[string]bool{
	"avatars":  true,
	"products": true,
	"chat":     true,
}

type UploadHandler struct {
	UploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{UploadDir: uploadDir}
}

// Upload - POST /api/files/upload
//
// Accepts a multipart form with a "file" field and an optional "type"
// field (avatars, products or chat) that selects the target subfolder.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("missing file"))
	}

	uploadType := c.FormValue("type", "products")
	if !allowedUploadTypes[uploadType] {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid upload type"))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("unsupported file type"))
	}

	dir := filepath.Join(h.UploadDir, uploadType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("failed to save file"))
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("failed to save file"))
	}

	return c.JSON(models.SuccessResponse(fiber.Map{
		"url": fmt.Sprintf("/uploads/%s/%s", uploadType, name),
	}))
}
