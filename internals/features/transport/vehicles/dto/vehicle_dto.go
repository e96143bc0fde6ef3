package dto

import (
	"strings"

	"github.com/google/uuid"

	"transportku_backend/internals/features/transport/vehicles/model"
)

type VehicleRequest struct {
	Brand       *string `json:"brand" validate:"omitempty,max=20"`
	Model       *string `json:"model" validate:"omitempty,max=50"`
	Plate       *string `json:"plate" validate:"omitempty,max=20"`
	Capacity    *int    `json:"capacity" validate:"omitempty,min=1,max=100"`
	DriverID    *string `json:"driver_id" validate:"omitempty,uuid"`
	ClearDriver bool    `json:"clear_driver"`
	Active      *bool   `json:"active"`
}

func (r VehicleRequest) Missing() map[string][]string {
	errs := map[string][]string{}
	if r.Plate == nil || strings.TrimSpace(*r.Plate) == "" {
		errs["plate"] = []string{"is required"}
	}
	if r.Capacity == nil {
		errs["capacity"] = []string{"is required"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r VehicleRequest) Apply(v *model.Vehicle) {
	if r.Brand != nil {
		v.VehicleBrand = strings.TrimSpace(*r.Brand)
	}
	if r.Model != nil {
		v.VehicleModel = *r.Model
	}
	if r.Plate != nil {
		v.VehiclePlate = *r.Plate
	}
	if r.Capacity != nil {
		v.VehicleCapacity = *r.Capacity
	}
	if r.DriverID != nil {
		if id, err := uuid.Parse(*r.DriverID); err == nil {
			v.VehicleDriverID = &id
		}
	}
	if r.ClearDriver {
		v.VehicleDriverID = nil
	}
	if r.Active != nil {
		v.VehicleActive = *r.Active
	}
}

type VehicleResponse struct {
	model.Vehicle
	Label          string `json:"label"`
	Occupied       int    `json:"occupied"`
	SeatsAvailable int    `json:"seats_available"`
}

func FromModel(v model.Vehicle, occupied int) VehicleResponse {
	return VehicleResponse{Vehicle: v, Label: v.String(), Occupied: occupied, SeatsAvailable: v.SeatsAvailable(occupied)}
}
