package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestResolveSort(t *testing.T) {
	allowed := map[string]string{"period": "charge_reference_period", "amount": "charge_base_amount"}
	tests := []struct {
		query   string
		want    string
		wantErr bool
	}{
		{"", "charge_reference_period DESC", false},
		{"?sort_by=amount&order=ASC", "charge_base_amount ASC", false},
		{"?sort_by=Amount", "charge_base_amount DESC", false},
		{"?sort_by=payee", "", true},
		{"?order=sideways", "", true},
	}
	for _, tc := range tests {
		app := fiber.New()
		var got string
		var gotErr error
		app.Get("/", func(c *fiber.Ctx) error {
			got, gotErr = ResolveSort(c, allowed, "period", "desc")
			return nil
		})
		if _, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil)); err != nil {
			t.Fatal(err)
		}
		if (gotErr != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("%q: got %q err=%v", tc.query, got, gotErr)
		}
	}
}
