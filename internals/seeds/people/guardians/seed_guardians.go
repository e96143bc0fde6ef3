package guardians

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	guardianModel "transportku_backend/internals/features/students/guardians/model"
	studentModel "transportku_backend/internals/features/students/students/model"
)

type StudentSeed struct {
	Name       string           `json:"name"`
	School     string           `json:"school"`
	Grade      string           `json:"grade"`
	MonthlyFee *decimal.Decimal `json:"monthly_fee"`
}

// GuardianSeed: satu guardian + anak-anaknya
type GuardianSeed struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Phone    string        `json:"phone"`
	Address  string        `json:"address"`
	Students []StudentSeed `json:"students"`
}

func SeedGuardiansFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var seeds []GuardianSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, s := range seeds {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		var existing guardianModel.Guardian
		if err := db.Where("guardian_email = ?", email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Guardian %s sudah ada, lewati...", email)
			continue
		}

		g := guardianModel.Guardian{
			GuardianName:  s.Name,
			GuardianEmail: &email,
			GuardianPhone: s.Phone,
		}
		if s.Address != "" {
			addr := s.Address
			g.GuardianAddress = &addr
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&g).Error; err != nil {
				return err
			}
			for _, st := range s.Students {
				row := studentModel.Student{
					StudentName:       st.Name,
					StudentGuardianID: g.GuardianID,
					StudentSchool:     st.School,
					StudentGrade:      st.Grade,
					StudentMonthlyFee: st.MonthlyFee,
					StudentActive:     true,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("❌ Gagal insert guardian %s: %v", email, err)
		} else {
			log.Printf("✅ Berhasil insert guardian %s (%d student)", g.GuardianName, len(s.Students))
		}
	}
}
