package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	chargeModel "transportku_backend/internals/features/finance/charges/model"
	chargeService "transportku_backend/internals/features/finance/charges/service"
	employeeModel "transportku_backend/internals/features/staff/employees/model"
	studentModel "transportku_backend/internals/features/students/students/model"
	routeModel "transportku_backend/internals/features/transport/routes/model"
	"transportku_backend/internals/helpers/billperiod"
)

// Schedule = aturan tanggal & denda untuk charge yang dibuat generator.
type Schedule struct {
	DueDay         int             // tanggal jatuh tempo di bulan periode
	DeadlineDay    int             // batas akhir di bulan berikutnya
	LateFeeRate    decimal.Decimal // tuition; salary selalu 0
	DefaultTuition decimal.Decimal
	Location       *time.Location
}

func DefaultSchedule() Schedule {
	return Schedule{
		DueDay:         10,
		DeadlineDay:    10,
		LateFeeRate:    decimal.RequireFromString("0.10"),
		DefaultTuition: decimal.NewFromInt(2500),
		Location:       time.UTC,
	}
}

// Dates: due = hari DueDay di bulan periode, deadline = DeadlineDay bulan berikutnya.
func (s Schedule) Dates(p billperiod.Period) (due, deadline time.Time) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	due = billperiod.Civil(p.Day(s.DueDay, loc))
	deadline = billperiod.Civil(p.Next().Day(s.DeadlineDay, loc))
	if deadline.Before(due) {
		deadline = due
	}
	return due, deadline
}

// Overrides: nominal per payee. Kunci = uuid payee atau nama (case-insensitive).
type Overrides map[string]decimal.Decimal

// ParseOverrides membaca "nama:nilai" / "uuid:nilai".
func ParseOverrides(items []string) (Overrides, error) {
	out := Overrides{}
	for _, raw := range items {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		i := strings.LastIndex(raw, ":")
		if i <= 0 || i == len(raw)-1 {
			return nil, fmt.Errorf("invalid override %q (want name:value)", raw)
		}
		v, err := decimal.NewFromString(strings.TrimSpace(raw[i+1:]))
		if err != nil || v.IsNegative() {
			return nil, fmt.Errorf("invalid override amount in %q", raw)
		}
		out[strings.ToLower(strings.TrimSpace(raw[:i]))] = billperiod.Round2(v)
	}
	return out, nil
}

func (o Overrides) lookup(id uuid.UUID, name string) (decimal.Decimal, bool) {
	if o == nil {
		return decimal.Zero, false
	}
	if v, ok := o[strings.ToLower(id.String())]; ok {
		return v, true
	}
	v, ok := o[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

type GenerateInput struct {
	Period    billperiod.Period
	Kinds     []chargeModel.ChargeKind // kosong = tuition + salary
	Overrides Overrides
	// nil = Schedule.DefaultTuition
	DefaultTuition *decimal.Decimal
}

type GenerateResult struct {
	Period  billperiod.Period `json:"period"`
	Created int               `json:"created"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Errors  []string          `json:"errors,omitempty"`
}

// Generator membuat charge bulanan untuk semua payee aktif.
type Generator struct {
	DB       *gorm.DB
	Charges  *chargeService.ChargeService
	Schedule Schedule
	Log      *zap.Logger
}

func NewGenerator(db *gorm.DB, charges *chargeService.ChargeService, sched Schedule, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{DB: db, Charges: charges, Schedule: sched, Log: log}
}

func (g *Generator) Run(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	res := GenerateResult{Period: in.Period}
	if in.Period.IsZero() {
		return res, fmt.Errorf("%w: period is required", chargeService.ErrInvalidCharge)
	}
	kinds := in.Kinds
	if len(kinds) == 0 {
		kinds = []chargeModel.ChargeKind{chargeModel.ChargeKindTuition, chargeModel.ChargeKindSalary}
	}

	for _, k := range kinds {
		var err error
		switch k {
		case chargeModel.ChargeKindTuition:
			err = g.tuition(ctx, in, &res)
		case chargeModel.ChargeKindSalary:
			err = g.salary(ctx, in, &res)
		default:
			err = fmt.Errorf("%w: unknown kind %q", chargeService.ErrInvalidCharge, k)
		}
		if err != nil {
			return res, err
		}
	}

	g.Log.Info("billing generated",
		zap.String("period", in.Period.String()),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (g *Generator) tuition(ctx context.Context, in GenerateInput, res *GenerateResult) error {
	var students []studentModel.Student
	if err := g.DB.WithContext(ctx).
		Where("student_active = ?", true).
		Order("student_name ASC").
		Find(&students).Error; err != nil {
		return err
	}
	routeFees, err := g.routeFees(ctx, students)
	if err != nil {
		return err
	}

	def := g.Schedule.DefaultTuition
	if in.DefaultTuition != nil {
		def = *in.DefaultTuition
	}
	due, deadline := g.Schedule.Dates(in.Period)

	for _, s := range students {
		amount := def
		switch {
		case hasOverride(in.Overrides, s.StudentID, s.StudentName):
			amount, _ = in.Overrides.lookup(s.StudentID, s.StudentName)
		case s.StudentMonthlyFee != nil:
			amount = *s.StudentMonthlyFee
		case s.StudentRouteID != nil:
			if fee, ok := routeFees[*s.StudentRouteID]; ok {
				amount = fee
			}
		}
		g.create(ctx, res, chargeService.CreateChargeInput{
			Kind:         chargeModel.ChargeKindTuition,
			PayeeID:      s.StudentID,
			BaseAmount:   amount,
			Period:       in.Period,
			DueDate:      due,
			HardDeadline: deadline,
			LateFeeRate:  g.Schedule.LateFeeRate,
		}, s.StudentName)
	}
	return nil
}

func (g *Generator) salary(ctx context.Context, in GenerateInput, res *GenerateResult) error {
	var employees []employeeModel.Employee
	if err := g.DB.WithContext(ctx).
		Where("employee_active = ?", true).
		Order("employee_name ASC").
		Find(&employees).Error; err != nil {
		return err
	}
	due, deadline := g.Schedule.Dates(in.Period)

	for _, e := range employees {
		amount := e.EmployeeSalary
		if v, ok := in.Overrides.lookup(e.EmployeeID, e.EmployeeName); ok {
			amount = v
		}
		g.create(ctx, res, chargeService.CreateChargeInput{
			Kind:         chargeModel.ChargeKindSalary,
			PayeeID:      e.EmployeeID,
			BaseAmount:   amount,
			Period:       in.Period,
			DueDate:      due,
			HardDeadline: deadline,
			LateFeeRate:  decimal.Zero,
		}, e.EmployeeName)
	}
	return nil
}

func (g *Generator) create(ctx context.Context, res *GenerateResult, in chargeService.CreateChargeInput, name string) {
	_, err := g.Charges.Create(ctx, in)
	switch {
	case err == nil:
		res.Created++
	case errors.Is(err, chargeService.ErrInvalidPeriod):
		res.Skipped++
	default:
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("%s (%s): %v", name, in.PayeeID, err))
		g.Log.Warn("charge generation failed",
			zap.String("payee_id", in.PayeeID.String()),
			zap.String("kind", string(in.Kind)),
			zap.Error(err),
		)
	}
}

// routeFees: hanya route yang benar-benar dipakai student dimuat.
func (g *Generator) routeFees(ctx context.Context, students []studentModel.Student) (map[uuid.UUID]decimal.Decimal, error) {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, s := range students {
		if s.StudentRouteID == nil || s.StudentMonthlyFee != nil {
			continue
		}
		if _, ok := seen[*s.StudentRouteID]; ok {
			continue
		}
		seen[*s.StudentRouteID] = struct{}{}
		ids = append(ids, *s.StudentRouteID)
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var routes []routeModel.Route
	if err := g.DB.WithContext(ctx).
		Select("route_id", "route_monthly_fee").
		Where("route_id IN ? AND route_monthly_fee IS NOT NULL", ids).
		Find(&routes).Error; err != nil {
		return nil, err
	}
	for _, r := range routes {
		if r.RouteMonthlyFee != nil {
			out[r.RouteID] = *r.RouteMonthlyFee
		}
	}
	return out, nil
}

func hasOverride(o Overrides, id uuid.UUID, name string) bool {
	_, ok := o.lookup(id, name)
	return ok
}
