package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JsonDBError: not found → 404, unique → 409, lainnya 500.
func JsonDBError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonError(c, fiber.StatusNotFound, what+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(strings.ToLower(err.Error()), "unique constraint"),
		strings.Contains(strings.ToLower(err.Error()), "duplicate key"):
		return JsonError(c, fiber.StatusConflict, what+" already exists")
	}
	return JsonError(c, fiber.StatusInternalServerError, "failed to process "+what)
}
