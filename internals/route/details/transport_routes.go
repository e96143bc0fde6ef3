package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	driverController "transportku_backend/internals/features/transport/drivers/controller"
	driverRoute "transportku_backend/internals/features/transport/drivers/route"
	routeController "transportku_backend/internals/features/transport/routes/controller"
	routeRoute "transportku_backend/internals/features/transport/routes/route"
	vehicleController "transportku_backend/internals/features/transport/vehicles/controller"
	vehicleRoute "transportku_backend/internals/features/transport/vehicles/route"
)

func TransportAdminRoutes(r fiber.Router, db *gorm.DB) {
	driverRoute.DriverAdminRoutes(r, driverController.NewDriverController(db))
	vehicleRoute.VehicleAdminRoutes(r, vehicleController.NewVehicleController(db))
	routeRoute.RouteAdminRoutes(r, routeController.NewRouteController(db))
}
