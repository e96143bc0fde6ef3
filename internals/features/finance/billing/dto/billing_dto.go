package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	chargeModel "transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/features/finance/billing/service"
	"transportku_backend/internals/helpers/billperiod"
)

// GenerateRequest: overrides format "nama:nilai" atau "uuid:nilai".
type GenerateRequest struct {
	Period         string           `json:"period" validate:"required,len=7"`
	Kinds          []string         `json:"kinds" validate:"omitempty,dive,oneof=tuition salary"`
	Overrides      []string         `json:"overrides" validate:"omitempty,dive,contains=:"`
	DefaultTuition *decimal.Decimal `json:"default_tuition"`
}

func (r GenerateRequest) ToInput() (service.GenerateInput, map[string][]string) {
	errs := map[string][]string{}
	p, err := billperiod.ParsePeriod(r.Period)
	if err != nil {
		errs["period"] = []string{"must be YYYY-MM"}
	}
	ov, err := service.ParseOverrides(r.Overrides)
	if err != nil {
		errs["overrides"] = []string{err.Error()}
	}
	if r.DefaultTuition != nil && r.DefaultTuition.IsNegative() {
		errs["default_tuition"] = []string{"must be >= 0"}
	}
	if len(errs) > 0 {
		return service.GenerateInput{}, errs
	}
	in := service.GenerateInput{Period: p, Overrides: ov, DefaultTuition: r.DefaultTuition}
	for _, k := range r.Kinds {
		in.Kinds = append(in.Kinds, chargeModel.ChargeKind(strings.ToLower(k)))
	}
	return in, nil
}
