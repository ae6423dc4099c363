package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps service errors onto HTTP statuses. Server-side failures
// get a generic body and are reported to Sentry.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrOAuthOnlyAccount):
		status = fiber.StatusUnauthorized
	}

	message := services.Message(err)
	if status >= fiber.StatusInternalServerError {
		message = "Internal server error"
		if errors.Is(err, services.ErrUploadFailed) {
			message = "Upload failed"
		}
		slog.Error("request failed",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// callerAndID resolves the authenticated user and the :id path parameter.
// On failure the response has already been written and ok is false.
func callerAndID(c *fiber.Ctx) (userID, id uuid.UUID, ok bool, err error) {
	userID, uerr := session.GetUserID(c)
	if uerr != nil {
		return uuid.Nil, uuid.Nil, false, unauthorized(c)
	}
	id, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return uuid.Nil, uuid.Nil, false, badRequest(c, "Invalid id")
	}
	return userID, id, true, nil
}
