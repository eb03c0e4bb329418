package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/analytics"
	"github.com/maheshrc27/contentflow/internal/calendar"
)

type AnalyticsHandler struct {
	src analytics.Source
	now func() time.Time
}

func NewAnalyticsHandler(src analytics.Source) *AnalyticsHandler {
	return &AnalyticsHandler{src: src, now: time.Now}
}

// Series serves GET /api/analytics/series?range=30&metric=engagement&platform=all.
func (h *AnalyticsHandler) Series(c *fiber.Ctx) error {
	r, err := analytics.ParseRange(c.Query("range", "30"), h.now().UTC())
	if err != nil {
		return sendError(c, err)
	}

	metric, err := analytics.ParseMetric(c.Query("metric", string(analytics.MetricEngagement)))
	if err != nil {
		return sendError(c, err)
	}

	filter, err := calendar.ParseFilter(c.Query("platform", string(calendar.FilterAll)))
	if err != nil {
		return sendError(c, err)
	}

	points, err := h.src.Series(c.Context(), r, metric, filter)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(points)
}
