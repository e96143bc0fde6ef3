package seeds

import (
	"gorm.io/gorm"

	guardians "transportku_backend/internals/seeds/people/guardians"
	employees "transportku_backend/internals/seeds/staff/employees"
)

// RunAllSeeds: data awal payee (guardian + student, employee). Idempoten per email.
func RunAllSeeds(db *gorm.DB) {
	//* Payee tuition
	guardians.SeedGuardiansFromJSON(db, "internals/seeds/people/guardians/data_guardians.json")

	//* Payee salary
	employees.SeedEmployeesFromJSON(db, "internals/seeds/staff/employees/data_employees.json")
}
