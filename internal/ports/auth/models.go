package auth

// Role es el rol persistido junto a la sesión.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdminVariant agrupa admin + super_admin.
// Se usa para el fan-out de notificaciones y para las rutas de operador.
func (r Role) IsAdminVariant() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}
