package database

import (
	"gorm.io/gorm"

	alertModel "transportku_backend/internals/features/finance/alerts/model"
	chargeModel "transportku_backend/internals/features/finance/charges/model"
	gatewayModel "transportku_backend/internals/features/finance/gateway/model"
	intentModel "transportku_backend/internals/features/finance/intents/model"
	receiptModel "transportku_backend/internals/features/finance/receipts/model"
	employeeModel "transportku_backend/internals/features/staff/employees/model"
	guardianModel "transportku_backend/internals/features/students/guardians/model"
	studentModel "transportku_backend/internals/features/students/students/model"
	driverModel "transportku_backend/internals/features/transport/drivers/model"
	routeModel "transportku_backend/internals/features/transport/routes/model"
	vehicleModel "transportku_backend/internals/features/transport/vehicles/model"
)

// Models: urutan = urutan migrasi (master data dulu, lalu billing).
func Models() []any {
	return []any{
		&guardianModel.Guardian{},
		&studentModel.Student{},
		&driverModel.Driver{},
		&vehicleModel.Vehicle{},
		&routeModel.Route{},
		&employeeModel.Employee{},
		&chargeModel.Charge{},
		&chargeModel.Payment{},
		&intentModel.BillingIntent{},
		&alertModel.AlertLog{},
		&receiptModel.Receipt{},
		&gatewayModel.GatewayEvent{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
