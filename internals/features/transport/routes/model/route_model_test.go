package model

import (
	"testing"

	"github.com/google/uuid"

	"transportku_backend/internals/helpers/dbtime"
)

func TestRoute_Validate(t *testing.T) {
	tests := []struct {
		dep, arr string
		wantErr  bool
	}{
		{"06:00", "07:00", false},
		{"06:30", "06:30", true},
		{"07:15", "06:45", true},
	}
	for _, tc := range tests {
		dep, _ := dbtime.Parse(tc.dep)
		arr, _ := dbtime.Parse(tc.arr)
		r := Route{RouteDeparture: dep, RouteArrival: arr}
		err := r.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s→%s: err = %v, wantErr %v", tc.dep, tc.arr, err, tc.wantErr)
		}
		if err != nil && err != ErrArrivalBeforeDeparture {
			t.Fatalf("unexpected error %v", err)
		}
	}
}

func TestRoute_DefaultTimes(t *testing.T) {
	r := Route{RouteName: "Polana"}
	if err := r.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if r.RouteID == uuid.Nil {
		t.Fatal("id not assigned")
	}
	if r.RouteDeparture.String() != "06:00" || r.RouteArrival.String() != "07:00" {
		t.Fatalf("defaults = %s → %s", r.RouteDeparture, r.RouteArrival)
	}
}

func TestRoute_AssignedDriver(t *testing.T) {
	routeDriver := uuid.New()
	vehicleDriver := uuid.New()
	vehicle := uuid.New()

	r := Route{RouteDriverID: &routeDriver}
	if got := r.AssignedDriverID(&vehicleDriver); got != &routeDriver {
		t.Fatal("without vehicle the route driver wins")
	}
	r.RouteVehicleID = &vehicle
	if got := r.AssignedDriverID(&vehicleDriver); *got != vehicleDriver {
		t.Fatal("vehicle driver should win when vehicle has one")
	}
	if got := r.AssignedDriverID(nil); *got != routeDriver {
		t.Fatal("vehicle without driver falls back to route driver")
	}
}
