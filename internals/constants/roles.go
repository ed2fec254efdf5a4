package constants

import "fmt"

const (
	RoleSiswa = "siswa"
	RoleGuru  = "guru"
	RoleAdmin = "admin"
	RoleSppg  = "sppg" // satuan pelayanan pemenuhan gizi (katering)
)

// Template pesan error role
const (
	ErrOnlyVerifiersCanAccess = "❌ Hanya guru atau admin yang boleh mengakses fitur %s."
	ErrOnlyStudentsCanAccess  = "❌ Hanya siswa yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess     = "❌ Hanya guru, admin, atau sppg yang boleh mengakses fitur %s."
)

func RoleErrorVerifier(feature string) string {
	return fmt.Sprintf(ErrOnlyVerifiersCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSiswa,
		RoleGuru,
		RoleAdmin,
		RoleSppg,
	}

	// Verifier = boleh set/override hasil deteksi
	VerifierRoles = []string{
		RoleGuru,
		RoleAdmin,
	}

	StaffRoles = []string{
		RoleGuru,
		RoleAdmin,
		RoleSppg,
	}

	StudentOnly = []string{
		RoleSiswa,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
