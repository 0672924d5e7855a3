package pets

import "context"

type Repository interface {
	// Create asigna el ID y persiste la mascota junto con sus tags
	// (p.Tags ya viene resuelto por el service).
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	// Update reemplaza los campos básicos y los links de tags.
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id int64) error
}
