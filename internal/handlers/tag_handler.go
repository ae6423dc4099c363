package handlers

import (
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type TagHandler struct {
	tagService *services.TagService
}

func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	tags, err := h.tagService.ListTags(c.UserContext(), userID, c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}
