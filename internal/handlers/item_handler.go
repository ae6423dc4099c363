package handlers

import (
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ItemHandler struct {
	itemService   *services.ItemService
	answerService *services.AnswerService
	reviewService *services.ReviewService
	tagService    *services.TagService
}

func NewItemHandler(
	itemService *services.ItemService,
	answerService *services.AnswerService,
	reviewService *services.ReviewService,
	tagService *services.TagService,
) *ItemHandler {
	return &ItemHandler{
		itemService:   itemService,
		answerService: answerService,
		reviewService: reviewService,
		tagService:    tagService,
	}
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var q dto.ListItemsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	resp, err := h.itemService.List(c.UserContext(), userID, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	item, err := h.itemService.Get(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Update(c.UserContext(), id, userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	if err := h.itemService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Item deleted"})
}

func (h *ItemHandler) SubmitAnswer(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.answerService.Submit(c.UserContext(), id, userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *ItemHandler) Answers(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	answers, err := h.answerService.History(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(answers)
}

func (h *ItemHandler) SetStatus(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.answerService.SetStatus(c.UserContext(), id, userID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// SetReview sets needs_review when the body carries a value and toggles it
// otherwise.
func (h *ItemHandler) SetReview(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	var req dto.SetReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	item, err := h.answerService.SetNeedsReview(c.UserContext(), id, userID, req.NeedsReview)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) RecomputeStats(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	item, err := h.answerService.RecomputeStats(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) RotateImage(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	var req dto.RotateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.itemService.RotateImage(c.UserContext(), id, userID, req.ImageIndex, req.Rotation)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) ReplaceTags(c *fiber.Ctx) error {
	userID, id, ok, err := callerAndID(c)
	if !ok {
		return err
	}
	var names []string
	if err := c.BodyParser(&names); err != nil {
		return badRequest(c, "Invalid request body, expected a list of tag names")
	}

	tags, err := h.tagService.ReplaceTags(c.UserContext(), id, userID, names)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

func (h *ItemHandler) ReviewSession(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var q dto.ReviewSessionQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	filter := services.ReviewFilter{Limit: q.Limit, Subject: q.Subject}
	if q.CollectionID != "" {
		id, err := uuid.Parse(q.CollectionID)
		if err != nil {
			return badRequest(c, "Invalid collection_id")
		}
		filter.CollectionID = &id
	}

	items, err := h.reviewService.GetReviewSession(c.UserContext(), userID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
