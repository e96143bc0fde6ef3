package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError mengubah *fiber.Error menjadi response JSON standar.
// Selain *fiber.Error → 500 tanpa membocorkan pesan asli.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "internal error")
}

// ErrorHandler untuk fiber.Config
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
