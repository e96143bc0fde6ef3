package configs

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGetters(t *testing.T) {
	t.Setenv("T_INT", " 42 ")
	t.Setenv("T_BAD_INT", "x")
	t.Setenv("T_BOOL", "true")
	t.Setenv("T_DUR", "90s")
	t.Setenv("T_DEC", "0.15")
	t.Setenv("T_EMPTY", "   ")

	if got := GetInt("T_INT", 1); got != 42 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := GetInt("T_BAD_INT", 7); got != 7 {
		t.Fatalf("GetInt fallback = %d", got)
	}
	if !GetBool("T_BOOL", false) {
		t.Fatal("GetBool")
	}
	if got := GetDuration("T_DUR", time.Hour); got != 90*time.Second {
		t.Fatalf("GetDuration = %s", got)
	}
	if got := GetDecimal("T_DEC", decimal.Zero); !got.Equal(decimal.RequireFromString("0.15")) {
		t.Fatalf("GetDecimal = %s", got)
	}
	if got := GetEnv("T_EMPTY", "def"); got != "def" {
		t.Fatalf("blank value should fall back, got %q", got)
	}
}

func TestLoadBillingConfig_Defaults(t *testing.T) {
	for _, k := range []string{"BILLING_TIMEZONE", "BILLING_DUE_DAY", "BILLING_LATE_FEE_RATE", "BILLING_ALERT_MIN_DAY"} {
		t.Setenv(k, "")
	}
	c := LoadBillingConfig()
	if c.DueDay != 10 || c.DeadlineDay != 10 || c.AlertMinDay != 10 {
		t.Fatalf("days = %d/%d/%d", c.DueDay, c.DeadlineDay, c.AlertMinDay)
	}
	if c.LateFeeRate.StringFixed(2) != "0.10" {
		t.Fatalf("rate = %s", c.LateFeeRate)
	}
	if c.Location == nil {
		t.Fatal("location nil")
	}
}

func TestLoadBillingConfig_Overrides(t *testing.T) {
	t.Setenv("BILLING_TIMEZONE", "UTC")
	t.Setenv("BILLING_DUE_DAY", "5")
	t.Setenv("BILLING_RECONCILE_INTERVAL", "15m")
	c := LoadBillingConfig()
	if c.Location.String() != "UTC" || c.DueDay != 5 || c.ReconcileInterval != 15*time.Minute {
		t.Fatalf("got %+v", c)
	}
}
