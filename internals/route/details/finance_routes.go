package details

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/bootstrap"

	alertController "transportku_backend/internals/features/finance/alerts/controller"
	alertRoute "transportku_backend/internals/features/finance/alerts/route"
	billingController "transportku_backend/internals/features/finance/billing/controller"
	billingRoute "transportku_backend/internals/features/finance/billing/route"
	chargeController "transportku_backend/internals/features/finance/charges/controller"
	chargeRoute "transportku_backend/internals/features/finance/charges/route"
	gatewayController "transportku_backend/internals/features/finance/gateway/controller"
	gatewayRoute "transportku_backend/internals/features/finance/gateway/route"
	intentController "transportku_backend/internals/features/finance/intents/controller"
	intentRoute "transportku_backend/internals/features/finance/intents/route"
	receiptController "transportku_backend/internals/features/finance/receipts/controller"
	receiptRoute "transportku_backend/internals/features/finance/receipts/route"
)

// FinancePublicRoutes: webhook Midtrans (tanpa JWT, diverifikasi signature).
func FinancePublicRoutes(r fiber.Router, app *bootstrap.Container) {
	if app.Midtrans == nil {
		return
	}
	gatewayRoute.GatewayPublicRoutes(r, gatewayController.NewGatewayController(app.Midtrans, app.Log))
}

func FinanceAdminRoutes(r fiber.Router, app *bootstrap.Container) {
	charges := chargeController.NewChargeController(app.Charges, app.Directory, app.ChargeDefaults, app.Log.Named("http.charges"))
	chargeRoute.ChargeAdminRoutes(r, charges)

	billingRoute.BillingAdminRoutes(r, billingController.NewBillingController(app.Generator, app.Scheduler, app.Log.Named("http.billing")))
	intentRoute.IntentAdminRoutes(r, intentController.NewIntentController(app.DB, app.Worker))
	receiptRoute.ReceiptAdminRoutes(r, receiptController.NewReceiptController(app.Receipts))
	alertRoute.AlertAdminRoutes(r, alertController.NewAlertController(app.DB))

	if app.Midtrans != nil {
		gatewayRoute.GatewayAdminRoutes(r, gatewayController.NewGatewayController(app.Midtrans, app.Log))
	}
}
