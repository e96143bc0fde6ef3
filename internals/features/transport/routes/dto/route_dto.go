package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"transportku_backend/internals/features/transport/routes/model"
	"transportku_backend/internals/helpers/dbtime"
)

type RouteRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	DriverID    *string          `json:"driver_id" validate:"omitempty,uuid"`
	VehicleID   *string          `json:"vehicle_id" validate:"omitempty,uuid"`
	Departure   *string          `json:"departure" validate:"omitempty,datetime=15:04"`
	Arrival     *string          `json:"arrival" validate:"omitempty,datetime=15:04"`
	Stops       []string         `json:"stops" validate:"omitempty,dive,required,max=120"`
	MonthlyFee  *decimal.Decimal `json:"monthly_fee"`
	Description *string          `json:"description"`
	Active      *bool            `json:"active"`
}

func (r RouteRequest) Missing() map[string][]string {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return map[string][]string{"name": {"is required"}}
	}
	return nil
}

func (r RouteRequest) Apply(rt *model.Route) map[string][]string {
	errs := map[string][]string{}
	if r.Name != nil {
		rt.RouteName = strings.TrimSpace(*r.Name)
	}
	if r.DriverID != nil {
		id := uuid.MustParse(*r.DriverID)
		rt.RouteDriverID = &id
	}
	if r.VehicleID != nil {
		id := uuid.MustParse(*r.VehicleID)
		rt.RouteVehicleID = &id
	}
	if r.Departure != nil {
		tod, err := dbtime.Parse(*r.Departure)
		if err != nil {
			errs["departure"] = []string{err.Error()}
		}
		rt.RouteDeparture = tod
	}
	if r.Arrival != nil {
		tod, err := dbtime.Parse(*r.Arrival)
		if err != nil {
			errs["arrival"] = []string{err.Error()}
		}
		rt.RouteArrival = tod
	}
	if r.Stops != nil {
		stops := make(pq.StringArray, 0, len(r.Stops))
		for _, s := range r.Stops {
			stops = append(stops, strings.TrimSpace(s))
		}
		rt.RouteStops = stops
	}
	if r.MonthlyFee != nil {
		if r.MonthlyFee.IsNegative() {
			errs["monthly_fee"] = []string{"must be >= 0"}
		}
		rt.RouteMonthlyFee = r.MonthlyFee
	}
	if r.Description != nil {
		rt.RouteDescription = r.Description
	}
	if r.Active != nil {
		rt.RouteActive = *r.Active
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
