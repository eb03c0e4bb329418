package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type ContentHandler struct {
	s service.ContentService
}

func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{s: service}
}

func (h *ContentHandler) ListContent(c *fiber.Ctx) error {
	content, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(content)
}

func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return sendError(c, err)
	}

	content, err := h.s.Get(c.Context(), GetUserID(c), id)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(content)
}

func (h *ContentHandler) CreateContent(c *fiber.Ctx) error {
	var req transfer.ContentRequest
	if err := parseBody(c, &req); err != nil {
		return sendError(c, err)
	}

	content, err := h.s.Create(c.Context(), GetUserID(c), &req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(content)
}

func (h *ContentHandler) UpdateContent(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return sendError(c, err)
	}

	var req transfer.ContentRequest
	if err := parseBody(c, &req); err != nil {
		return sendError(c, err)
	}

	content, err := h.s.Update(c.Context(), GetUserID(c), id, &req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(content)
}

func (h *ContentHandler) RemoveContent(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return sendError(c, err)
	}

	if err := h.s.Remove(c.Context(), GetUserID(c), id); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
