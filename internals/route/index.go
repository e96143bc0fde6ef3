package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/bootstrap"
	"transportku_backend/internals/configs"
	"transportku_backend/internals/constants"
	"transportku_backend/internals/helpers/storage"
	authMiddleware "transportku_backend/internals/middlewares/auth"
	routeDetails "transportku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, c *bootstrap.Container) {
	startTime = time.Now()
	log := c.Log.Named("routes")

	BaseRoutes(app, c)

	// PUBLIC → tanpa JWT
	log.Info("setting up PUBLIC group")
	public := app.Group("/api/public")

	// ADMIN → JWT + role staff
	log.Info("setting up ADMIN group (auth + role check)")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(configs.JWTSecret),
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("dashboard"), constants.AllStaffRoles...),
	)

	log.Info("mounting finance routes")
	routeDetails.FinancePublicRoutes(public, c)
	routeDetails.FinanceAdminRoutes(admin, c)

	// receipt backend local: file disajikan di /api/a/files (set RECEIPT_LOCAL_BASE_URL ke sini)
	if ls, ok := c.Store.(*storage.LocalStore); ok {
		admin.Static("/files", ls.Dir, fiber.Static{Browse: false})
	}

	log.Info("mounting people + transport routes")
	routeDetails.PeopleAdminRoutes(admin, c.DB)
	routeDetails.TransportAdminRoutes(admin, c.DB)
}
