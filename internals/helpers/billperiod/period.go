// file: internals/helpers/billperiod/period.go
package billperiod

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period adalah bucket tahun-bulan (mis. "2025-01") untuk tagihan bulanan.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf mengambil bucket bulan dari sebuah waktu pada lokasi tertentu.
func PeriodOf(t time.Time, loc *time.Location) Period {
	if loc != nil {
		t = t.In(loc)
	}
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod menerima "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Period{}, fmt.Errorf("invalid period %q: want YYYY-MM", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period year %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return Period{}, fmt.Errorf("invalid period month %q", s)
	}
	return Period{Year: y, Month: time.Month(m)}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

// FirstDay = tanggal 1 bulan ini (00:00 di loc).
func (p Period) FirstDay(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// Day mengembalikan tanggal ke-d di bulan ini, di-clamp ke panjang bulan.
func (p Period) Day(d int, loc *time.Location) time.Time {
	if d < 1 {
		d = 1
	}
	if last := p.DaysIn(); d > last {
		d = last
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(p.Year, p.Month, d, 0, 0, 0, 0, loc)
}

func (p Period) DaysIn() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p Period) Next() Period {
	t := time.Date(p.Year, p.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) Prev() Period {
	t := time.Date(p.Year, p.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

/* ===================== SQL & JSON ===================== */

// Value disimpan sebagai varchar(7) "YYYY-MM".
func (p Period) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.String(), nil
}

func (p *Period) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Period{}
		return nil
	case string:
		parsed, err := ParsePeriod(v)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case []byte:
		return p.Scan(string(v))
	case time.Time:
		*p = Period{Year: v.Year(), Month: v.Month()}
		return nil
	default:
		return fmt.Errorf("billperiod: cannot scan %T into Period", src)
	}
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

/* ===================== Dates ===================== */

// DateOf memotong waktu ke tanggal sipil (00:00) pada loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Civil menyimpan tanggal sipil t sebagai 00:00 UTC (format kolom DATE).
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween = jumlah hari sipil dari `from` ke `to` (negatif kalau to < from).
// Dihitung lewat UTC supaya pergantian DST tidak menggeser hasil.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// SameDate membandingkan tanggal sipil saja.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// AfterDate: a jatuh setelah b (tanggal sipil).
func AfterDate(a, b time.Time) bool {
	return DaysBetween(b, a) > 0
}

// OnOrAfterDay: hari-dalam-bulan dari t >= day.
func OnOrAfterDay(t time.Time, day int) bool {
	return t.Day() >= day
}

/* ===================== Money ===================== */

// Round2 membulatkan nominal ke 2 desimal (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MaxZero = max(d, 0)
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// WholeUnits membulatkan ke atas ke satuan utuh (gateway hanya menerima integer).
// Kelebihan sen dipotong saat payment dicatat, lihat RecordPaymentInput.Tolerance.
func WholeUnits(d decimal.Decimal) int64 {
	return d.Ceil().IntPart()
}
