package entity

import "time"

// Roles válidos para User.
const (
	RoleManager     = "manager"
	RoleStorekeeper = "storekeeper" // bodeguero: único rol que aprueba comprobantes
	RoleImportStaff = "import_staff"
	RoleExportStaff = "export_staff"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleManager, RoleStorekeeper, RoleImportStaff, RoleExportStaff:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Email        string
	Phone        string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
