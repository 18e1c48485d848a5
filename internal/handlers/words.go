package handlers

import (
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type addWordRequest struct {
	models.WordPair
	// KeepLocal stores an unpersisted copy when the backend refuses the word.
	KeepLocal bool `json:"keepLocal"`
}

type wordRequestBody struct {
	Bangla      string `json:"bangla"`
	Korean      string `json:"korean"`
	SubmittedBy string `json:"submittedBy"`
}

// ListWords fetches ?page=&search= and returns the resulting view. Missing
// parameters keep the current page and committed term.
func (h *Handler) ListWords(c *fiber.Ctx) error {
	page := c.QueryInt("page", h.store.View().Page)
	search := h.store.SearchTerm()
	if c.Context().QueryArgs().Has("search") {
		search = c.Query("search")
	}
	if err := h.store.Fetch(c.UserContext(), page, search); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.store.View())
}

func (h *Handler) AddWord(c *fiber.Ctx) error {
	var req addWordRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug("add word: bad body", zap.Error(err), zap.ByteString("body", c.Body()))
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.store.Add(c.UserContext(), req.WordPair)
	if err != nil {
		if req.KeepLocal {
			local := h.store.AddLocalFallback(req.WordPair)
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"word":  local,
				"error": err.Error(),
			})
		}
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) UpdateWord(c *fiber.Ctx) error {
	var w models.WordPair
	if err := c.BodyParser(&w); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	w.ID = c.Params("id")

	updated, err := h.store.Update(c.UserContext(), w)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) DeleteWord(c *fiber.Ctx) error {
	if err := h.store.Remove(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) RequestWord(c *fiber.Ctx) error {
	var body wordRequestBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req, err := h.store.RequestWord(c.UserContext(), body.Bangla, body.Korean, body.SubmittedBy)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *Handler) SubmitterEmail(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"email": h.store.SubmitterEmail()})
}
