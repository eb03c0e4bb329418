package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type AIHandler struct {
	s service.AIService
}

func NewAIHandler(service service.AIService) *AIHandler {
	return &AIHandler{s: service}
}

func (h *AIHandler) ListProviders(c *fiber.Ctx) error {
	providers, err := h.s.Providers(c.Context())
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(providers)
}

func (h *AIHandler) GenerateText(c *fiber.Ctx) error {
	return generate(c, h.s.GenerateText)
}

func (h *AIHandler) GenerateImage(c *fiber.Ctx) error {
	return generate(c, h.s.GenerateImage)
}

func (h *AIHandler) GenerateSpeech(c *fiber.Ctx) error {
	return generate(c, h.s.GenerateSpeech)
}

func (h *AIHandler) GenerateVideo(c *fiber.Ctx) error {
	return generate(c, h.s.GenerateVideo)
}

func generate[T any](c *fiber.Ctx, fn func(context.Context, *T) (*transfer.GenerationResult, error)) error {
	req := new(T)
	if err := parseBody(c, req); err != nil {
		return sendError(c, err)
	}

	result, err := fn(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
