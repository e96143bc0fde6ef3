package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"transportku_backend/internals/helpers/dbtime"
)

var ErrArrivalBeforeDeparture = errors.New("arrival time must be after departure time")

// Route = rute jemputan sekolah.
type Route struct {
	RouteID   uuid.UUID `gorm:"column:route_id;type:uuid;primaryKey" json:"route_id"`
	RouteName string    `gorm:"column:route_name;type:varchar(255);not null" json:"route_name"`

	RouteDriverID  *uuid.UUID `gorm:"column:route_driver_id;type:uuid;index" json:"route_driver_id,omitempty"`
	RouteVehicleID *uuid.UUID `gorm:"column:route_vehicle_id;type:uuid;index" json:"route_vehicle_id,omitempty"`

	RouteDeparture dbtime.Tod `gorm:"column:route_departure;type:time;not null" json:"route_departure"`
	RouteArrival   dbtime.Tod `gorm:"column:route_arrival;type:time;not null" json:"route_arrival"`

	// daftar titik jemput berurutan
	RouteStops pq.StringArray `gorm:"column:route_stops;type:text[]" json:"route_stops"`

	// tarif bulanan default untuk student di rute ini; nil = pakai BILLING_DEFAULT_TUITION
	RouteMonthlyFee *decimal.Decimal `gorm:"column:route_monthly_fee;type:numeric(12,2)" json:"route_monthly_fee,omitempty"`

	RouteDescription *string `gorm:"column:route_description;type:text" json:"route_description,omitempty"`
	RouteActive      bool    `gorm:"column:route_active;not null;default:true" json:"route_active"`

	RouteCreatedAt time.Time      `gorm:"column:route_created_at;autoCreateTime" json:"route_created_at"`
	RouteUpdatedAt time.Time      `gorm:"column:route_updated_at;autoUpdateTime" json:"route_updated_at"`
	RouteDeletedAt gorm.DeletedAt `gorm:"column:route_deleted_at;index" json:"route_deleted_at,omitempty"`
}

func (Route) TableName() string { return "routes" }

// default 06:00 → 07:00
func DefaultDeparture() dbtime.Tod { return dbtime.At(6, 0) }
func DefaultArrival() dbtime.Tod   { return dbtime.At(7, 0) }

func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.RouteID == uuid.Nil {
		r.RouteID = uuid.New()
	}
	if r.RouteDeparture.IsZero() {
		r.RouteDeparture = DefaultDeparture()
	}
	if r.RouteArrival.IsZero() {
		r.RouteArrival = DefaultArrival()
	}
	return r.Validate()
}

func (r *Route) Validate() error {
	if !r.RouteDeparture.Before(r.RouteArrival) {
		return ErrArrivalBeforeDeparture
	}
	return nil
}

// AssignedDriverID: driver kendaraan rute (kalau kendaraan punya driver), selain itu driver rute.
func (r *Route) AssignedDriverID(vehicleDriverID *uuid.UUID) *uuid.UUID {
	if r.RouteVehicleID != nil && vehicleDriverID != nil {
		return vehicleDriverID
	}
	return r.RouteDriverID
}
