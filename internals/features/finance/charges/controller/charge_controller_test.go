package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"transportku_backend/internals/features/finance/charges/engine"
	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/features/finance/charges/service"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/testdb"
	"transportku_backend/internals/middlewares"
)

var frozen = time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

func newTestApp(t *testing.T, role string) (*fiber.App, *service.ChargeService) {
	t.Helper()
	db := testdb.Open(t, &model.Charge{}, &model.Payment{})
	cs := service.NewChargeService(db, nil, engine.DefaultPolicy(), nil)
	cs.Now = func() time.Time { return frozen }
	h := NewChargeController(cs, nil, nil, nil)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(middlewares.BillingClock(time.UTC, cs.Now))
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userRole", role)
		return c.Next()
	})
	g := app.Group("/api/a")
	g.Get("/charges", h.List)
	g.Get("/charges/export", h.Export)
	g.Get("/charges/:id", h.Get)
	g.Get("/charges/:id/evaluate", h.Evaluate)
	g.Post("/charges", h.Create)
	g.Post("/charges/:id/payments", h.RecordPayment)
	g.Delete("/charges/:id", h.Delete)
	return app, cs
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func createCharge(t *testing.T, app *fiber.App, payee uuid.UUID) dtoCharge {
	t.Helper()
	status, env := do(t, app, "POST", "/api/a/charges", map[string]any{
		"payee_id":    payee.String(),
		"base_amount": "1000.00",
		"period":      "2025-01",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d (%s %v)", status, env.Message, env.Errors)
	}
	var ch dtoCharge
	if err := json.Unmarshal(env.Data, &ch); err != nil {
		t.Fatal(err)
	}
	return ch
}

type dtoCharge struct {
	ChargeID     uuid.UUID `json:"charge_id"`
	Status       string    `json:"status"`
	DueDate      string    `json:"due_date"`
	HardDeadline string    `json:"hard_deadline"`
	DaysLate     int       `json:"days_late"`
	Outstanding  string    `json:"outstanding"`
	AmountDue    string    `json:"adjusted_amount_due"`
}

func TestCreate_UsesScheduleDefaults(t *testing.T) {
	app, _ := newTestApp(t, "admin")
	ch := createCharge(t, app, uuid.New())
	if ch.Status != "PENDING" || ch.DueDate != "2025-01-10" || ch.HardDeadline != "2025-02-10" {
		t.Fatalf("unexpected charge %+v", ch)
	}
}

func TestCreate_ValidationAndConflict(t *testing.T) {
	app, _ := newTestApp(t, "admin")

	status, env := do(t, app, "POST", "/api/a/charges", map[string]any{"period": "2025-1"})
	if status != fiber.StatusUnprocessableEntity || env.ErrorCode != "VALIDATION_ERROR" {
		t.Fatalf("status = %d code = %s", status, env.ErrorCode)
	}
	if _, ok := env.Errors["payee_id"]; !ok {
		t.Fatalf("expected payee_id error, got %v", env.Errors)
	}

	payee := uuid.New()
	createCharge(t, app, payee)
	status, _ = do(t, app, "POST", "/api/a/charges", map[string]any{
		"payee_id": payee.String(), "base_amount": "1000.00", "period": "2025-01",
	})
	if status != fiber.StatusConflict {
		t.Fatalf("duplicate period status = %d, want 409", status)
	}
}

func TestEvaluate_OnDate(t *testing.T) {
	app, _ := newTestApp(t, "admin")
	ch := createCharge(t, app, uuid.New())

	status, env := do(t, app, "GET", "/api/a/charges/"+ch.ChargeID.String()+"/evaluate?on=2025-01-20", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var ev dtoCharge
	_ = json.Unmarshal(env.Data, &ev)
	if ev.Status != "LATE" || ev.DaysLate != 10 || ev.AmountDue != "1200.00" {
		t.Fatalf("evaluation = %+v", ev)
	}

	status, _ = do(t, app, "GET", "/api/a/charges/"+ch.ChargeID.String()+"/evaluate?on=20-01-2025", nil)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("bad date status = %d", status)
	}
}

func TestRecordPayment_Flow(t *testing.T) {
	app, _ := newTestApp(t, "accountant")
	ch := createCharge(t, app, uuid.New())
	path := "/api/a/charges/" + ch.ChargeID.String() + "/payments"

	status, env := do(t, app, "POST", path, map[string]any{"amount": "2000.00", "method": "CASH"})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("overpayment status = %d (%s)", status, env.Message)
	}
	status, _ = do(t, app, "POST", path, map[string]any{"amount": "10", "method": "CHEQUE"})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("bad method status = %d", status)
	}

	status, env = do(t, app, "POST", path, map[string]any{"amount": "1000.00", "method": "TRANSFER"})
	if status != fiber.StatusCreated {
		t.Fatalf("record status = %d (%s)", status, env.Message)
	}
	var res struct {
		Charge   dtoCharge `json:"charge"`
		Previous string    `json:"previous_status"`
	}
	_ = json.Unmarshal(env.Data, &res)
	if res.Charge.Status != "PAID" || res.Previous != "PENDING" || res.Charge.Outstanding != "0.00" {
		t.Fatalf("after payment = %+v", res)
	}

	// charge dengan payment tidak bisa dihapus
	status, _ = do(t, app, "DELETE", "/api/a/charges/"+ch.ChargeID.String(), nil)
	if status != fiber.StatusConflict {
		t.Fatalf("delete status = %d, want 409", status)
	}
}

func TestGet_NotFoundAndBadID(t *testing.T) {
	app, _ := newTestApp(t, "admin")
	if status, _ := do(t, app, "GET", "/api/a/charges/"+uuid.NewString(), nil); status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	status, env := do(t, app, "GET", "/api/a/charges/not-a-uuid", nil)
	if status != fiber.StatusBadRequest || env.Success {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
}

func TestList_PaginationAndFilter(t *testing.T) {
	app, _ := newTestApp(t, "admin")
	for i := 0; i < 3; i++ {
		createCharge(t, app, uuid.New())
	}
	req := httptest.NewRequest("GET", "/api/a/charges?per_page=2&status=pending", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Data       []dtoCharge       `json:"data"`
		Pagination helper.Pagination `json:"pagination"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if len(body.Data) != 2 || body.Pagination.Total != 3 || !body.Pagination.HasNext {
		t.Fatalf("list = %d rows, pagination %+v", len(body.Data), body.Pagination)
	}

	if status, _ := do(t, app, "GET", "/api/a/charges?status=unknown", nil); status != fiber.StatusBadRequest {
		t.Fatalf("bad status filter = %d", status)
	}
	if status, _ := do(t, app, "GET", "/api/a/charges?sort_by=payee_name", nil); status != fiber.StatusBadRequest {
		t.Fatalf("unknown sort key = %d", status)
	}
	if status, _ := do(t, app, "GET", "/api/a/charges?sort_by=due_date&order=asc", nil); status != fiber.StatusOK {
		t.Fatalf("sort by due_date = %d", status)
	}
}

func TestExport_Workbook(t *testing.T) {
	app, _ := newTestApp(t, "admin")
	createCharge(t, app, uuid.New())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/a/charges/export", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	book, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer book.Close()
	rows, err := book.GetRows(exportSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][0] != "Charge ID" || rows[1][8] != "PENDING" {
		t.Fatalf("rows = %v", rows)
	}
}
