package handlers

import (
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type accountRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	NewPassword     string `json:"newPassword" validate:"omitempty,min=6"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug("login: bad body", zap.Error(err), zap.ByteString("body", c.Body()))
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.sessions.LoginErr(c.UserContext(), req.Email, req.Password); err != nil {
		return h.fail(c, err)
	}
	s, _ := h.sessions.Current()
	return c.JSON(fiber.Map{
		"user":   s.User,
		"expiry": s.Expiry,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.sessions.ResetPassword(c.UserContext(), req.Email); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset email sent"})
}

func (h *Handler) VerifyReset(c *fiber.Ctx) error {
	var req models.VerifyResetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.sessions.VerifyReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}

// Me returns the signed-in user and when the session ends.
func (h *Handler) Me(c *fiber.Ctx) error {
	s, _ := h.sessions.Current()
	return c.JSON(fiber.Map{
		"user":   s.User,
		"expiry": s.Expiry,
		"state":  h.sessions.State(),
	})
}

func (h *Handler) UpdateAccount(c *fiber.Ctx) error {
	var req accountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	msg, err := h.sessions.UpdateAccount(c.UserContext(), req.CurrentPassword, req.Email, req.NewPassword)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}
