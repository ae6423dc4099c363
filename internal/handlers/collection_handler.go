package handlers

import (
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func (h *CollectionHandler) List(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	collections, err := h.collectionService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collections)
}

func (h *CollectionHandler) Trash(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	collections, err := h.collectionService.Trash(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collections)
}

func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	collection, err := h.collectionService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// Update applies a partial change. Setting is_deleted moves the collection
// to or from the trash.
func (h *CollectionHandler) Update(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	var req dto.UpdateCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	collection, err := h.collectionService.Update(c.UserContext(), id, userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collection)
}

func (h *CollectionHandler) MoveToTrash(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	collection, err := h.collectionService.SoftDelete(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collection)
}

func (h *CollectionHandler) Restore(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	collection, err := h.collectionService.Restore(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collection)
}

func (h *CollectionHandler) HardDelete(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	deleted, err := h.collectionService.HardDelete(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Collection permanently deleted", "deleted_items": deleted})
}
