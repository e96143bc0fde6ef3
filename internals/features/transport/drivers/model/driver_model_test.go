package model

import (
	"testing"
	"time"
)

func TestValidPhone(t *testing.T) {
	for in, want := range map[string]bool{
		"841234567":   true,
		"+841234567":  true,
		" 841234567 ": true,
		"84123456":    false,
		"8412345678":  false,
		"84-123-4567": false,
	} {
		if got := ValidPhone(in); got != want {
			t.Fatalf("ValidPhone(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDriver_LicenseValid(t *testing.T) {
	today := time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)
	d := Driver{}
	if d.LicenseValid(today) {
		t.Fatal("no expiry date must be invalid")
	}
	for _, tc := range []struct {
		expiry time.Time
		want   bool
	}{
		{time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), true},
	} {
		e := tc.expiry
		d.DriverLicenseExpiry = &e
		if got := d.LicenseValid(today); got != tc.want {
			t.Fatalf("expiry %s: got %v", e.Format("2006-01-02"), got)
		}
	}
}

func TestDriver_BeforeCreateRejectsBadPhone(t *testing.T) {
	d := Driver{DriverName: "X", DriverPhone: "12"}
	if err := d.BeforeCreate(nil); err != ErrInvalidPhone {
		t.Fatalf("err = %v", err)
	}
}
