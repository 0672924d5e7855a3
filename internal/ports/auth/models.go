package auth

// Role define los dos roles del marketplace.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsAdmin reporta si el rol tiene privilegios de administración.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Valid reporta si el rol es uno de los conocidos.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Claims representa la identidad resuelta de un request autenticado.
// El middleware la deja en el context; los handlers la pasan explícitamente
// a los services (nunca como estado global).
type Claims struct {
	UserID int64
	Email  string
	Role   Role
}

// Present reporta si hay un caller autenticado.
func (c Claims) Present() bool { return c.UserID > 0 }
