package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Estados de User.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User representa un usuario del sistema (administrador o empleado que registra ventas).
type User struct {
	ID           string
	EmployeeID   string // código de empleado; si está vacío se usa el ID
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string // admin, employee
	Status       string // active, inactive
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName devuelve el nombre a mostrar en reportes: nombre, email o "Unknown Employee".
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown Employee"
	}
	if u.FullName != "" {
		return u.FullName
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown Employee"
}
