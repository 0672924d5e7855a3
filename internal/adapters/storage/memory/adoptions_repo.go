package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pet-adoption-store/internal/domain/adoptions"
	"pet-adoption-store/internal/domain/pets"
	"pet-adoption-store/internal/domain/users"
)

// adoptionRow guarda solo las referencias; pet y adopter se "joinean" en
// cada lectura contra los repos vivos, igual que haría el backend SQL.
type adoptionRow struct {
	ID           int64
	AdoptionDate time.Time
	UserID       int64
	PetID        int64
}

type AdoptionRepo struct {
	mu     sync.Mutex
	pets   *PetRepo
	users  *UserRepo
	byID   map[int64]adoptionRow
	nextID int64
}

// NewAdoptionRepo acopla el ledger in-memory a los repos de pets y users
// del mismo backend: la mutación de status y el insert comparten la
// sección crítica del repo, que hace de "transacción".
func NewAdoptionRepo(petsRepo *PetRepo, usersRepo *UserRepo) *AdoptionRepo {
	return &AdoptionRepo{
		pets:  petsRepo,
		users: usersRepo,
		byID:  make(map[int64]adoptionRow),
	}
}

func (r *AdoptionRepo) Adopt(ctx context.Context, petID, userID int64, at time.Time) (adoptions.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.pets.GetByID(ctx, petID)
	if err != nil {
		return adoptions.Adoption{}, adoptions.ErrPetNotFound
	}
	if p.Status != pets.StatusAvailable {
		return adoptions.Adoption{}, adoptions.NotAvailableError{Status: p.Status}
	}

	r.nextID++
	row := adoptionRow{
		ID:           r.nextID,
		AdoptionDate: at,
		UserID:       userID,
		PetID:        petID,
	}
	r.byID[row.ID] = row

	if err := r.pets.setStatus(petID, pets.StatusSold); err != nil {
		// deshacer el insert: nunca queda estado parcial
		delete(r.byID, row.ID)
		return adoptions.Adoption{}, err
	}

	return r.hydrate(ctx, row), nil
}

func (r *AdoptionRepo) GetByID(ctx context.Context, id int64) (adoptions.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.byID[id]
	if !ok {
		return adoptions.Adoption{}, adoptions.ErrNotFound
	}
	return r.hydrate(ctx, row), nil
}

func (r *AdoptionRepo) ListAll(ctx context.Context) ([]adoptions.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx, func(adoptionRow) bool { return true }), nil
}

func (r *AdoptionRepo) ListByUser(ctx context.Context, userID int64) ([]adoptions.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx, func(row adoptionRow) bool { return row.UserID == userID }), nil
}

func (r *AdoptionRepo) Update(ctx context.Context, a adoptions.Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.byID[a.ID]
	if !ok {
		return adoptions.ErrNotFound
	}
	row.AdoptionDate = a.AdoptionDate
	r.byID[a.ID] = row
	return nil
}

func (r *AdoptionRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return adoptions.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// list devuelve adoption_date DESC, empates por id ASC (orden de inserción).
func (r *AdoptionRepo) list(ctx context.Context, keep func(adoptionRow) bool) []adoptions.Adoption {
	rows := make([]adoptionRow, 0, len(r.byID))
	for _, row := range r.byID {
		if keep(row) {
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].AdoptionDate.Equal(rows[j].AdoptionDate) {
			return rows[i].AdoptionDate.After(rows[j].AdoptionDate)
		}
		return rows[i].ID < rows[j].ID
	})

	out := make([]adoptions.Adoption, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.hydrate(ctx, row))
	}
	return out
}

func (r *AdoptionRepo) hydrate(ctx context.Context, row adoptionRow) adoptions.Adoption {
	a := adoptions.Adoption{
		ID:           row.ID,
		AdoptionDate: row.AdoptionDate,
		Adopter:      adoptions.Adopter{ID: row.UserID},
	}

	// tolera referencias huérfanas en modo dev (identidades de debug)
	if p, err := r.pets.GetByID(ctx, row.PetID); err == nil {
		p.Tags = nil // el contrato de adopción no incluye tags
		a.Pet = p
	} else {
		a.Pet.ID = row.PetID
	}
	if u, err := r.users.GetByID(ctx, row.UserID); err == nil {
		a.Adopter = adoptions.Adopter{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
		}
	}
	return a
}

// interface checks
var (
	_ adoptions.Repository = (*AdoptionRepo)(nil)
	_ pets.Repository      = (*PetRepo)(nil)
	_ users.Repository     = (*UserRepo)(nil)
)
