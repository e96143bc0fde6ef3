package employees

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"transportku_backend/internals/features/staff/employees/model"
)

type EmployeeSeed struct {
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   string          `json:"role"`
	Salary decimal.Decimal `json:"salary"`
}

func SeedEmployeesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var seeds []EmployeeSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, s := range seeds {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		var existing model.Employee
		if err := db.Where("employee_email = ?", email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Employee %s sudah ada, lewati...", email)
			continue
		}

		role := model.EmployeeRole(strings.ToUpper(s.Role))
		if !role.Valid() {
			log.Printf("❌ Role %q tidak dikenal untuk %s, lewati...", s.Role, email)
			continue
		}
		row := model.Employee{
			EmployeeName:   s.Name,
			EmployeeEmail:  &email,
			EmployeeRole:   role,
			EmployeeSalary: s.Salary.Round(2),
			EmployeeActive: true,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Printf("❌ Gagal insert employee %s: %v", email, err)
		} else {
			log.Printf("✅ Berhasil insert employee %s (%s)", row.EmployeeName, row.EmployeeRole)
		}
	}
}
