package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	employeeController "transportku_backend/internals/features/staff/employees/controller"
	employeeRoute "transportku_backend/internals/features/staff/employees/route"
	guardianController "transportku_backend/internals/features/students/guardians/controller"
	guardianRoute "transportku_backend/internals/features/students/guardians/route"
	studentController "transportku_backend/internals/features/students/students/controller"
	studentRoute "transportku_backend/internals/features/students/students/route"
)

// PeopleAdminRoutes: guardian, student, employee (payee).
func PeopleAdminRoutes(r fiber.Router, db *gorm.DB) {
	guardianRoute.GuardianAdminRoutes(r, guardianController.NewGuardianController(db))
	studentRoute.StudentAdminRoutes(r, studentController.NewStudentController(db))
	employeeRoute.EmployeeAdminRoutes(r, employeeController.NewEmployeeController(db))
}
