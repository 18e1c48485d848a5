package handlers

import (
	"time"

	"github.com/developia-II/langobridge/internal/history"
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/utils"
	"github.com/gofiber/fiber/v2"
)

type historyEntry struct {
	models.HistoryItem
	Age string `json:"age"`
}

func (h *Handler) ListHistory(c *fiber.Ctx) error {
	now := time.Now()
	items := h.history.List()
	out := make([]historyEntry, 0, len(items))
	for _, it := range items {
		out = append(out, historyEntry{HistoryItem: it, Age: history.FormatAge(it.Timestamp, now)})
	}
	return c.JSON(fiber.Map{"history": out})
}

func (h *Handler) RecordHistory(c *fiber.Ctx) error {
	var w models.WordPair
	if err := c.BodyParser(&w); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if w.Bangla == "" && w.Korean == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "bangla or korean is required")
	}
	return c.Status(fiber.StatusCreated).JSON(h.history.Record(w))
}

func (h *Handler) RemoveHistory(c *fiber.Ctx) error {
	h.history.Remove(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ClearHistory(c *fiber.Ctx) error {
	h.history.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
