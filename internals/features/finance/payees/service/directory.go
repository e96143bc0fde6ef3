package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	chargeModel "transportku_backend/internals/features/finance/charges/model"
	employeeModel "transportku_backend/internals/features/staff/employees/model"
	guardianModel "transportku_backend/internals/features/students/guardians/model"
	studentModel "transportku_backend/internals/features/students/students/model"
)

var ErrPayeeNotFound = errors.New("payee not found")

// Contact = siapa yang menerima pesan untuk sebuah payee.
// Tuition: guardian student; salary: employee sendiri.
type Contact struct {
	PayeeName    string `json:"payee_name"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RecipientKey string `json:"recipient_key"` // kunci batching: satu pesan per penerima
}

// Directory membaca nama & kontak payee; charge tidak pernah menyimpan data ini.
// Unscoped: payee yang sudah di-soft-delete tetap bisa menerima receipt.
type Directory struct {
	DB *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory { return &Directory{DB: db} }

func (d *Directory) Resolve(ctx context.Context, ref chargeModel.PayeeRef) (Contact, error) {
	switch ref.Type {
	case chargeModel.PayeeStudent:
		return d.student(ctx, ref)
	case chargeModel.PayeeEmployee:
		return d.employee(ctx, ref)
	default:
		return Contact{}, fmt.Errorf("%w: unknown payee type %q", ErrPayeeNotFound, ref.Type)
	}
}

func (d *Directory) student(ctx context.Context, ref chargeModel.PayeeRef) (Contact, error) {
	var s studentModel.Student
	if err := d.DB.WithContext(ctx).Unscoped().First(&s, "student_id = ?", ref.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Contact{}, fmt.Errorf("%w: %s", ErrPayeeNotFound, ref)
		}
		return Contact{}, err
	}
	var g guardianModel.Guardian
	if err := d.DB.WithContext(ctx).Unscoped().First(&g, "guardian_id = ?", s.StudentGuardianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Contact{}, fmt.Errorf("%w: guardian of %s", ErrPayeeNotFound, ref)
		}
		return Contact{}, err
	}
	return Contact{
		PayeeName:    s.StudentName,
		Name:         g.GuardianName,
		Email:        g.ContactEmail(),
		RecipientKey: "guardian:" + g.GuardianID.String(),
	}, nil
}

func (d *Directory) employee(ctx context.Context, ref chargeModel.PayeeRef) (Contact, error) {
	var e employeeModel.Employee
	if err := d.DB.WithContext(ctx).Unscoped().First(&e, "employee_id = ?", ref.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Contact{}, fmt.Errorf("%w: %s", ErrPayeeNotFound, ref)
		}
		return Contact{}, err
	}
	return Contact{
		PayeeName:    e.EmployeeName,
		Name:         e.EmployeeName,
		Email:        e.ContactEmail(),
		RecipientKey: "employee:" + e.EmployeeID.String(),
	}, nil
}
