package dto

import (
	"strings"
	"time"

	"transportku_backend/internals/features/transport/drivers/model"
)

type DriverRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,max=25"`
	Address       *string `json:"address" validate:"omitempty,max=200"`
	LicenseNumber *string `json:"license_number" validate:"omitempty,max=50"`
	LicenseExpiry *string `json:"license_expiry" validate:"omitempty,datetime=2006-01-02"`
	Active        *bool   `json:"active"`
}

// Missing: field wajib untuk create.
func (r DriverRequest) Missing() map[string][]string {
	errs := map[string][]string{}
	for field, v := range map[string]*string{"name": r.Name, "phone": r.Phone, "license_number": r.LicenseNumber} {
		if v == nil || strings.TrimSpace(*v) == "" {
			errs[field] = []string{"is required"}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r DriverRequest) Apply(d *model.Driver) {
	if r.Name != nil {
		d.DriverName = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		d.DriverPhone = strings.TrimSpace(*r.Phone)
	}
	if r.Address != nil {
		d.DriverAddress = r.Address
	}
	if r.LicenseNumber != nil {
		d.DriverLicenseNumber = strings.TrimSpace(*r.LicenseNumber)
	}
	if r.LicenseExpiry != nil {
		if t, err := time.Parse("2006-01-02", *r.LicenseExpiry); err == nil {
			d.DriverLicenseExpiry = &t
		}
	}
	if r.Active != nil {
		d.DriverActive = *r.Active
	}
}

type DriverResponse struct {
	model.Driver
	LicenseValid bool `json:"license_valid"`
}

func FromModel(d model.Driver, today time.Time) DriverResponse {
	return DriverResponse{Driver: d, LicenseValid: d.LicenseValid(today)}
}
