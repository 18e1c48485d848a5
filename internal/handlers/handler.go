package handlers

import (
	"errors"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/history"
	"github.com/developia-II/langobridge/internal/i18n"
	"github.com/developia-II/langobridge/internal/notify"
	"github.com/developia-II/langobridge/internal/services"
	"github.com/developia-II/langobridge/internal/session"
	"github.com/developia-II/langobridge/internal/suggest"
	"github.com/developia-II/langobridge/internal/vocabulary"
	"github.com/developia-II/langobridge/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Deps is everything the routes act on. Examples may be nil when no AI key is set.
type Deps struct {
	Store    *vocabulary.Store
	Sessions *session.Manager
	Engine   *suggest.Engine
	History  *history.Recorder
	Feed     *notify.Feed
	Examples suggest.ExampleGenerator
	Log      *zap.Logger
}

type Handler struct {
	store    *vocabulary.Store
	sessions *session.Manager
	engine   *suggest.Engine
	history  *history.Recorder
	feed     *notify.Feed
	examples suggest.ExampleGenerator
	log      *zap.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		store:    d.Store,
		sessions: d.Sessions,
		engine:   d.Engine,
		history:  d.History,
		feed:     d.Feed,
		examples: d.Examples,
		log:      d.Log,
	}
}

// Register mounts every view route on r.
func (h *Handler) Register(r fiber.Router) {
	words := r.Group("/words")
	words.Get("/", h.ListWords)
	words.Post("/", h.RequireSession, h.AddWord)
	words.Post("/requests", h.RequestWord)
	words.Get("/requests/email", h.SubmitterEmail)
	words.Put("/:id", h.RequireSession, h.UpdateWord)
	words.Delete("/:id", h.RequireSession, h.DeleteWord)

	search := r.Group("/search")
	search.Post("/", h.SearchInput)
	search.Get("/", h.Suggestions)
	search.Post("/selection", h.SelectSuggestion)
	search.Delete("/selection", h.ClearSelection)

	r.Post("/language/toggle", h.ToggleLanguage)

	hist := r.Group("/history")
	hist.Get("/", h.ListHistory)
	hist.Post("/", h.RecordHistory)
	hist.Delete("/", h.ClearHistory)
	hist.Delete("/:id", h.RemoveHistory)

	auth := r.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Post("/reset-password", h.ResetPassword)
	auth.Post("/verify-reset", h.VerifyReset)
	auth.Get("/me", h.RequireSession, h.Me)
	auth.Put("/account", h.RequireSession, h.UpdateAccount)

	admin := r.Group("/admin", h.RequireSession)
	admin.Get("/overview", h.AdminOverview)
	admin.Get("/requests", h.PendingRequests)
	admin.Post("/requests/:id/approve", h.ApproveRequest)
	admin.Post("/requests/:id/reject", h.RejectRequest)
	admin.Post("/requests/:id/example", h.RequestExample)

	r.Get("/notices", h.Notices)
}

// RequireSession rejects the request unless someone is signed in.
func (h *Handler) RequireSession(c *fiber.Ctx) error {
	if _, ok := h.sessions.Current(); !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required")
	}
	return c.Next()
}

// fail maps core errors onto HTTP statuses. Validation messages follow the
// selected display language.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var verr *vocabulary.ValidationError
	if errors.As(err, &verr) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, i18n.T(h.store.SelectedLanguage(), verr.Key))
	}

	var serr *backend.StatusError
	switch {
	case errors.Is(err, vocabulary.ErrValidation), errors.Is(err, session.ErrNoChanges):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrAuthRequired), errors.Is(err, session.ErrWrongPassword),
		errors.Is(err, session.ErrExpiredToken), errors.Is(err, session.ErrInvalidToken):
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, vocabulary.ErrBusy), errors.Is(err, vocabulary.ErrInvalidTransition):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrTranslationTimeout):
		return utils.ErrorResponse(c, fiber.StatusGatewayTimeout, err.Error())
	case errors.As(err, &serr):
		return utils.ErrorResponse(c, serr.Status, serr.Error())
	case errors.Is(err, backend.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error())
	}
	h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return utils.ErrorResponse(c, fiber.StatusBadGateway, err.Error())
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
