package billperiod

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{in: "2025-01", want: Period{Year: 2025, Month: time.January}},
		{in: " 2024-12 ", want: Period{Year: 2024, Month: time.December}},
		{in: "2025-13", wantErr: true},
		{in: "2025-1", wantErr: true},
		{in: "25-01", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParsePeriod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePeriod(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePeriod(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPeriodNavigation(t *testing.T) {
	p := NewPeriod(2024, time.December)
	if got := p.Next().String(); got != "2025-01" {
		t.Fatalf("next of 2024-12 = %s", got)
	}
	if got := NewPeriod(2025, time.January).Prev().String(); got != "2024-12" {
		t.Fatalf("prev of 2025-01 = %s", got)
	}
	if !p.Before(p.Next()) {
		t.Fatalf("expected %s before %s", p, p.Next())
	}
}

func TestPeriodDayClampsToMonthLength(t *testing.T) {
	feb := NewPeriod(2025, time.February)
	if got := feb.Day(31, time.UTC).Day(); got != 28 {
		t.Fatalf("2025-02 day 31 clamped to %d, want 28", got)
	}
	leap := NewPeriod(2024, time.February)
	if got := leap.Day(30, time.UTC).Day(); got != 29 {
		t.Fatalf("2024-02 day 30 clamped to %d, want 29", got)
	}
}

func TestPeriodScanValue(t *testing.T) {
	p := NewPeriod(2025, time.March)
	v, err := p.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	var back Period
	if err := back.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if back != p {
		t.Fatalf("round trip = %v, want %v", back, p)
	}
	if err := back.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}

func TestDaysBetweenIgnoresClockTime(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Maputo")
	if err != nil {
		loc = time.UTC
	}
	due := time.Date(2025, 1, 10, 0, 0, 0, 0, loc)
	late := time.Date(2025, 1, 20, 23, 59, 0, 0, loc)
	if got := DaysBetween(due, late); got != 10 {
		t.Fatalf("DaysBetween = %d, want 10", got)
	}
	if got := DaysBetween(late, due); got != -10 {
		t.Fatalf("DaysBetween reversed = %d, want -10", got)
	}
	if !AfterDate(late, due) || AfterDate(due, due) {
		t.Fatalf("AfterDate misbehaves")
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	utc := time.Date(2025, 1, 9, 23, 30, 0, 0, time.UTC)
	got := DateOf(utc, loc)
	if got.Day() != 10 || got.Hour() != 0 {
		t.Fatalf("DateOf = %v, want 2025-01-10 00:00 +02", got)
	}
}

func TestMoneyHelpers(t *testing.T) {
	if got := Round2(decimal.RequireFromString("10.005")); !got.Equal(decimal.RequireFromString("10.01")) {
		t.Fatalf("Round2 = %s", got)
	}
	if got := MaxZero(decimal.NewFromInt(-5)); !got.IsZero() {
		t.Fatalf("MaxZero = %s", got)
	}
	if got := WholeUnits(decimal.RequireFromString("1199.50")); got != 1200 {
		t.Fatalf("WholeUnits = %d", got)
	}
}
