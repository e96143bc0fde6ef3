package helper

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ResolveSort membaca ?sort_by= & ?order= lalu memetakan ke kolom whitelist.
// Hasil siap dipakai gorm .Order(), mis. "charge_due_date ASC".
func ResolveSort(c *fiber.Ctx, allowed map[string]string, defaultKey, defaultDir string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(c.Query("sort_by", defaultKey)))
	col, ok := allowed[key]
	if !ok {
		return "", fmt.Errorf("sort_by %q tidak didukung", key)
	}
	dir := strings.ToLower(strings.TrimSpace(c.Query("order", defaultDir)))
	switch dir {
	case "asc":
		return col + " ASC", nil
	case "desc", "":
		return col + " DESC", nil
	}
	return "", fmt.Errorf("order %q harus asc atau desc", dir)
}
