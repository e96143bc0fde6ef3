package constants

import "fmt"

// Role yang dikenali dari klaim JWT "role"
const (
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
	RoleAccountant = "accountant"
)

const (
	ErrOnlyAdminsCanAccess  = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyFinanceCanAccess = "❌ Hanya admin atau accountant yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess   = "❌ Hanya admin, staff, atau accountant yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorFinance(feature string) string {
	return fmt.Sprintf(ErrOnlyFinanceCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllStaffRoles = []string{
		RoleAdmin,
		RoleStaff,
		RoleAccountant,
	}

	FinanceRoles = []string{
		RoleAdmin,
		RoleAccountant,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
