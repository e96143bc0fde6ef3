package routes

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"transportku_backend/internals/bootstrap"
	"transportku_backend/internals/configs"
	database "transportku_backend/internals/databases"
	routeModel "transportku_backend/internals/features/transport/routes/model"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/testdb"
	"transportku_backend/internals/middlewares"
)

const secret = "route-test-secret"

func newServer(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("RECEIPT_STORE", "local")
	t.Setenv("RECEIPT_LOCAL_DIR", t.TempDir())
	t.Setenv("MIDTRANS_SERVER_KEY", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("BILLING_TIMEZONE", "UTC")
	configs.JWTSecret = secret

	// tabel routes (text[]) tidak didukung sqlite
	var models []any
	for _, m := range database.Models() {
		if _, isRoute := m.(*routeModel.Route); !isRoute {
			models = append(models, m)
		}
	}
	db := testdb.Open(t, models...)

	c, err := bootstrap.New(context.Background(), db, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(middlewares.BillingClock(c.Billing.Location, nil))
	SetupRoutes(app, c)
	return app
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   uuid.NewString(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func send(t *testing.T, app *fiber.App, method, path, role, body string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, role))
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	app := newServer(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("health = %d", resp.StatusCode)
	}
	var body struct {
		Status         string `json:"status"`
		PendingIntents int64  `json:"pending_intents"`
		BillingZone    string `json:"billing_zone"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Status != "OK" || body.PendingIntents != 0 || body.BillingZone != "UTC" {
		t.Fatalf("body = %+v", body)
	}
}

func TestAdminGroupAccess(t *testing.T) {
	app := newServer(t)
	// payee acak: belum ada student dengan id ini
	charge := `{"payee_id":"` + uuid.NewString() + `","base_amount":"1000.00","period":"2025-01"}`

	tests := []struct {
		name, method, path, role, body string
		want                           int
	}{
		{"no token", "GET", "/api/a/charges", "", "", fiber.StatusUnauthorized},
		{"unknown role", "GET", "/api/a/charges", "parent", "", fiber.StatusForbidden},
		{"staff reads charges", "GET", "/api/a/charges", "staff", "", fiber.StatusOK},
		{"staff cannot create charge", "POST", "/api/a/charges", "staff", charge, fiber.StatusForbidden},
		{"unknown payee", "POST", "/api/a/charges", "accountant", charge, fiber.StatusUnprocessableEntity},
		{"staff cannot see salaries", "GET", "/api/a/employees", "staff", "", fiber.StatusForbidden},
		{"admin lists employees", "GET", "/api/a/employees", "admin", "", fiber.StatusOK},
		{"staff lists guardians", "GET", "/api/a/guardians", "staff", "", fiber.StatusOK},
		{"staff lists intents denied", "GET", "/api/a/intents", "staff", "", fiber.StatusForbidden},
		{"alert logs", "GET", "/api/a/alerts/logs", "admin", "", fiber.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := send(t, app, tc.method, tc.path, tc.role, tc.body); got != tc.want {
				t.Fatalf("%s %s as %q = %d, want %d", tc.method, tc.path, tc.role, got, tc.want)
			}
		})
	}
}

func TestStudentChargeFlow(t *testing.T) {
	app := newServer(t)

	post := func(path, body string) json.RawMessage {
		t.Helper()
		req := httptest.NewRequest("POST", path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token(t, "accountant"))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("POST %s = %d", path, resp.StatusCode)
		}
		return env.Data
	}
	idOf := func(raw json.RawMessage, key string) string {
		var m map[string]any
		_ = json.Unmarshal(raw, &m)
		id, _ := m[key].(string)
		if id == "" {
			t.Fatalf("no %s in %s", key, raw)
		}
		return id
	}

	guardian := idOf(post("/api/a/guardians", `{"name":"Ana","phone":"+258841234567","email":"ana@example.com"}`), "guardian_id")
	student := idOf(post("/api/a/students", `{"name":"Joana","guardian_id":"`+guardian+`","school":"Polana","grade":"3"}`), "student_id")
	charge := idOf(post("/api/a/charges", `{"payee_id":"`+student+`","base_amount":"2500.00","period":"2025-01"}`), "charge_id")

	if got := send(t, app, "GET", "/api/a/charges/"+charge, "staff", ""); got != fiber.StatusOK {
		t.Fatalf("get charge = %d", got)
	}
}

func TestGatewayNotMountedWithoutKey(t *testing.T) {
	app := newServer(t)
	if got := send(t, app, "POST", "/api/public/payments/midtrans/notification", "", `{}`); got != fiber.StatusNotFound {
		t.Fatalf("webhook without server key = %d, want 404", got)
	}
}
