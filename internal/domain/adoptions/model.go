package adoptions

import (
	"time"

	"pet-adoption-store/internal/domain/pets"
	"pet-adoption-store/internal/ports/auth"
)

// Adoption es el registro del ledger: vincula un usuario con exactamente
// una mascota. Se crea solo vía Adopt y en flujo normal es inmutable.
type Adoption struct {
	ID           int64
	AdoptionDate time.Time

	// Pet viene poblado en las lecturas (sin tags; el contrato de la
	// adopción expone solo el perfil básico de inventario).
	Pet pets.Pet

	// Adopter es un resumen saneado del dueño del registro.
	Adopter Adopter
}

// Adopter es la vista reducida del usuario adoptante.
// No es users.User a propósito: evita ciclos de imports y nunca
// arrastra el hash de password.
type Adopter struct {
	ID       int64
	Email    string
	FullName string
	Role     auth.Role
}
