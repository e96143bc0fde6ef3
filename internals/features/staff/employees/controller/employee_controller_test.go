package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/staff/employees/model"
	driverModel "transportku_backend/internals/features/transport/drivers/model"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/testdb"
)

type envelope struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Data    json.RawMessage     `json:"data"`
}

func setup(t *testing.T) (*fiber.App, *EmployeeController) {
	t.Helper()
	db := testdb.Open(t, &model.Employee{}, &driverModel.Driver{})
	h := NewEmployeeController(db)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/employees", h.List)
	app.Post("/employees", h.Create)
	app.Patch("/employees/:id", h.Update)
	app.Delete("/employees/:id", h.Delete)
	return app, h
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
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

func TestEmployee_CreateRules(t *testing.T) {
	app, h := setup(t)

	drv := driverModel.Driver{DriverName: "Alberto", DriverPhone: "841234567", DriverLicenseNumber: "MZ-1", DriverActive: true}
	if err := h.DB.Create(&drv).Error; err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		body   map[string]any
		status int
		field  string
	}{
		{"missing fields", map[string]any{}, fiber.StatusUnprocessableEntity, "salary"},
		{"bad role", map[string]any{"name": "X", "role": "CEO", "salary": "10"}, fiber.StatusUnprocessableEntity, "role"},
		{"negative salary", map[string]any{"name": "X", "role": "STAFF", "salary": "-1"}, fiber.StatusUnprocessableEntity, "salary"},
		{"driver link on staff", map[string]any{"name": "X", "role": "STAFF", "salary": "10", "driver_id": drv.DriverID.String()}, fiber.StatusUnprocessableEntity, "driver_id"},
		{"unknown driver", map[string]any{"name": "X", "role": "DRIVER", "salary": "10", "driver_id": "6f1d2a8e-4b7c-4d39-9a51-0c2e7f3b9d10"}, fiber.StatusUnprocessableEntity, "driver_id"},
		{"driver ok", map[string]any{"name": "Alberto", "role": "driver", "salary": "12000.499", "driver_id": drv.DriverID.String()}, fiber.StatusCreated, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := call(t, app, "POST", "/employees", tc.body)
			if status != tc.status {
				t.Fatalf("status = %d, want %d (%v)", status, tc.status, env.Errors)
			}
			if tc.field != "" && len(env.Errors[tc.field]) == 0 {
				t.Fatalf("expected error on %q, got %v", tc.field, env.Errors)
			}
			if tc.status == fiber.StatusCreated {
				var e model.Employee
				_ = json.Unmarshal(env.Data, &e)
				if e.EmployeeRole != model.EmployeeRoleDriver {
					t.Fatalf("role = %q", e.EmployeeRole)
				}
				if e.EmployeeSalary.StringFixed(2) != "12000.50" {
					t.Fatalf("salary = %s", e.EmployeeSalary.StringFixed(2))
				}
			}
		})
	}
}

func TestEmployee_ListByRoleAndDelete(t *testing.T) {
	app, _ := setup(t)
	var staffID string
	for _, b := range []map[string]any{
		{"name": "Rosa", "role": "ADMIN", "salary": "18000"},
		{"name": "Fatima", "role": "STAFF", "salary": "9500"},
	} {
		status, env := call(t, app, "POST", "/employees", b)
		if status != fiber.StatusCreated {
			t.Fatalf("seed = %d %v", status, env.Errors)
		}
		var e model.Employee
		_ = json.Unmarshal(env.Data, &e)
		if e.EmployeeRole == model.EmployeeRoleStaff {
			staffID = e.EmployeeID.String()
		}
	}

	_, env := call(t, app, "GET", "/employees?role=staff", nil)
	var rows []model.Employee
	_ = json.Unmarshal(env.Data, &rows)
	if len(rows) != 1 || rows[0].EmployeeName != "Fatima" {
		t.Fatalf("filter by role: %+v", rows)
	}

	if status, _ := call(t, app, "DELETE", "/employees/"+staffID, nil); status != fiber.StatusOK {
		t.Fatalf("delete = %d", status)
	}
	if status, _ := call(t, app, "DELETE", "/employees/"+staffID, nil); status != fiber.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", status)
	}
}
