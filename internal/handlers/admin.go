package handlers

import (
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/utils"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) AdminOverview(c *fiber.Ctx) error {
	ov, err := h.store.AdminOverview(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ov)
}

func (h *Handler) PendingRequests(c *fiber.Ctx) error {
	reqs, err := h.store.PendingRequests(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"requests": reqs})
}

// ApproveRequest takes an optional {bangla, korean} example in the body.
func (h *Handler) ApproveRequest(c *fiber.Ctx) error {
	var ex *models.Example
	if len(c.Body()) > 0 {
		ex = &models.Example{}
		if err := c.BodyParser(ex); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	w, err := h.store.ApproveRequest(c.UserContext(), c.Params("id"), ex)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(w)
}

func (h *Handler) RejectRequest(c *fiber.Ctx) error {
	if err := h.store.RejectRequest(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "status": models.RequestRejected})
}

// RequestExample drafts an example sentence for a queued request so the
// reviewer can edit it before approving.
func (h *Handler) RequestExample(c *fiber.Ctx) error {
	if h.examples == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "AI examples are not configured")
	}
	req, ok := h.store.Request(c.Params("id"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Word request not found")
	}

	ex, err := h.examples.GenerateExample(c.UserContext(), req.Bangla, req.Korean)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ex)
}
