package handlers

import (
	"io"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file provided")
	}
	f, err := header.Open()
	if err != nil {
		return badRequest(c, "Could not read file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "Could not read file")
	}

	upload, err := h.uploadService.Upload(c.UserContext(), userID, header.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{URL: upload.URL, PublicID: upload.PublicID})
}

func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.DeleteImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.PublicID) == "" {
		return badRequest(c, "public_id is required")
	}

	if err := h.uploadService.DeleteImage(c.UserContext(), userID, req.PublicID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Image deleted"})
}

// Reap runs one reaper pass on demand.
func (h *UploadHandler) Reap(c *fiber.Ctx) error {
	reaped, failed, err := h.uploadService.ReapExpired(c.UserContext(), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReapResponse{Reaped: reaped, Failed: failed})
}
