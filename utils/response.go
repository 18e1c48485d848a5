package utils

import (
	"github.com/developia-II/langobridge/internal/script"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("bangla", func(fl validator.FieldLevel) bool {
		return script.ContainsBangla(fl.Field().String())
	})
	_ = v.RegisterValidation("hangul", func(fl validator.FieldLevel) bool {
		return script.ContainsHangul(fl.Field().String())
	})
	_ = v.RegisterValidation("submitter", func(fl validator.FieldLevel) bool {
		return script.IsEmail(fl.Field().String())
	})
	return v
}

func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
