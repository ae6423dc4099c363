package handlers

import (
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	reviewService    *services.ReviewService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, reviewService *services.ReviewService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, reviewService: reviewService}
}

func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	report, err := h.analyticsService.GetStats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *AnalyticsHandler) Recommendations(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var q dto.RecommendationsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	items, err := h.reviewService.GetRecommendations(c.UserContext(), userID, services.ReviewFilter{
		Limit:   q.Limit,
		Subject: q.Subject,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
