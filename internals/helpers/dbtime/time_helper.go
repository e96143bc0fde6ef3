// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Locals yang diisi middleware billing (lihat middlewares.BillingClock)
const (
	LocBillingLoc = "billing_loc" // *time.Location
	LocNowFunc    = "billing_now" // func() time.Time, dipakai test untuk membekukan jam
)

// DefaultZone dipakai kalau BILLING_TIMEZONE kosong / tidak valid.
const DefaultZone = "Africa/Maputo"

// LoadLocation: nama zona → *time.Location, fallback DefaultZone lalu UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultZone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultZone); err == nil {
		return loc
	}
	return time.UTC
}

// GetBillingLocation membaca lokasi dari Locals; fallback UTC.
func GetBillingLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if loc, ok := c.Locals(LocBillingLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}

// Now = jam request; bisa dibekukan lewat Locals(LocNowFunc).
func Now(c *fiber.Ctx) time.Time {
	if c != nil {
		if fn, ok := c.Locals(LocNowFunc).(func() time.Time); ok && fn != nil {
			return fn()
		}
	}
	return time.Now()
}

// Today = tanggal sipil request di zona billing.
func Today(c *fiber.Ctx) time.Time {
	t := Now(c).In(GetBillingLocation(c))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate menerima "YYYY-MM-DD" dan mengembalikan tanggal sipil (00:00 UTC).
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}
