package handlers

import "github.com/gofiber/fiber/v2"

// Notices returns toasts newer than ?since=.
func (h *Handler) Notices(c *fiber.Ctx) error {
	since := c.QueryInt("since", 0)
	if since < 0 {
		since = 0
	}
	return c.JSON(fiber.Map{"notices": h.feed.Since(uint64(since))})
}
