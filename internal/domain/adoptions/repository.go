package adoptions

import (
	"context"
	"time"
)

type Repository interface {
	// Adopt ejecuta la unidad atómica completa: verifica que la mascota
	// exista y esté AVAILABLE, inserta la adopción y marca la mascota
	// SOLD. Todo o nada: ante cualquier fallo no queda estado parcial.
	// Con dos adopters concurrentes sobre la misma mascota, exactamente
	// uno gana; el otro recibe NotAvailableError.
	//
	// Errores: ErrPetNotFound, NotAvailableError.
	Adopt(ctx context.Context, petID, userID int64, at time.Time) (Adoption, error)

	// GetByID devuelve la adopción con pet y adopter poblados.
	GetByID(ctx context.Context, id int64) (Adoption, error)

	// ListAll / ListByUser devuelven adoption_date DESC; empates por
	// orden de inserción (id ASC).
	ListAll(ctx context.Context) ([]Adoption, error)
	ListByUser(ctx context.Context, userID int64) ([]Adoption, error)

	// Update persiste los campos mutables (solo adoption_date).
	Update(ctx context.Context, a Adoption) error

	// Delete borra el registro. No toca el status de la mascota.
	Delete(ctx context.Context, id int64) error
}
