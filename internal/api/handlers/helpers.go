package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/analytics"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}

func errorStatus(err error) int {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, models.ErrUnknownPlatform),
		errors.Is(err, service.ErrInvalidContent),
		errors.Is(err, service.ErrScheduleRequired),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrUnknownModel),
		errors.Is(err, analytics.ErrInvalidRange),
		errors.Is(err, analytics.ErrUnknownMetric):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidUser):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrConnectionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrProviderUnavailable):
		return fiber.StatusTooManyRequests
	case errors.Is(err, service.ErrUpstream):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Something went wrong"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "id", Message: "id must be a positive integer"}
	}
	return int64(id), nil
}
