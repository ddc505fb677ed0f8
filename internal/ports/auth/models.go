package auth

// Role del usuario autenticado.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Claims representa la información extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
	Role   Role

	// TokenID (jti) permite revocar la sesión en logout.
	TokenID string
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
