package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/helpers/dbtime"
)

// BillingClock menaruh zona waktu billing (dan jam, kalau now != nil) di Locals
// supaya handler menghitung "hari ini" dengan kalender yang sama dengan scheduler.
func BillingClock(loc *time.Location, now func() time.Time) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(c *fiber.Ctx) error {
		c.Locals(dbtime.LocBillingLoc, loc)
		if now != nil {
			c.Locals(dbtime.LocNowFunc, now)
		}
		return c.Next()
	}
}
