package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/service"
)

// PlatformHandler exposes the caller's social platform connections. The
// connections themselves are created by the external OAuth flow.
type PlatformHandler struct {
	ps service.PlatformService
}

func NewPlatformHandler(ps service.PlatformService) *PlatformHandler {
	return &PlatformHandler{ps: ps}
}

func (h *PlatformHandler) ListConnections(c *fiber.Ctx) error {
	connections, err := h.ps.List(c.Context(), GetUserID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(connections)
}

func (h *PlatformHandler) DisconnectPlatform(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return sendError(c, err)
	}

	if err := h.ps.Disconnect(c.Context(), GetUserID(c), id); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
