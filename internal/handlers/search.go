package handlers

import (
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/utils"
	"github.com/gofiber/fiber/v2"
)

type searchInput struct {
	Text string `json:"text"`
	// Wait runs the lookup inline and returns its result.
	Wait bool `json:"wait"`
}

type suggestionsResponse struct {
	Input       string            `json:"input"`
	Suggestions []models.WordPair `json:"suggestions"`
	Fetching    bool              `json:"isFetching"`
}

func (h *Handler) SearchInput(c *fiber.Ctx) error {
	var in searchInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if !in.Wait {
		h.engine.Input(in.Text)
		return c.Status(fiber.StatusAccepted).JSON(h.suggestions())
	}

	if err := h.store.Search(c.UserContext(), in.Text); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.engine.Lookup(c.UserContext(), in.Text); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.suggestions())
}

func (h *Handler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(h.suggestions())
}

func (h *Handler) suggestions() suggestionsResponse {
	return suggestionsResponse{
		Input:       h.engine.Raw(),
		Suggestions: h.engine.Suggestions(),
		Fetching:    h.engine.Fetching(),
	}
}

// SelectSuggestion pins the chosen entry and records the lookup in history.
func (h *Handler) SelectSuggestion(c *fiber.Ctx) error {
	var w models.WordPair
	if err := c.BodyParser(&w); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if w.Bangla == "" && w.Korean == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "bangla or korean is required")
	}

	h.store.Pin(w)
	h.history.Record(w)
	return c.JSON(h.store.View())
}

func (h *Handler) ClearSelection(c *fiber.Ctx) error {
	h.store.Unpin()
	h.engine.Clear()
	return c.JSON(h.store.View())
}

func (h *Handler) ToggleLanguage(c *fiber.Ctx) error {
	lang := h.store.ToggleLanguage()
	return c.JSON(fiber.Map{"selectedLanguage": lang})
}
