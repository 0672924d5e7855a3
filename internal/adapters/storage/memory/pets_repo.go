package memory

import (
	"context"
	"sort"
	"sync"

	"pet-adoption-store/internal/domain/pets"
)

type PetRepo struct {
	mu     sync.RWMutex
	byID   map[int64]pets.Pet
	nextID int64
}

func NewPetRepo() *PetRepo {
	return &PetRepo{byID: make(map[int64]pets.Pet)}
}

func (r *PetRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = r.nextID
	r.byID[p.ID] = clonePet(p)
	return p, nil
}

func (r *PetRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return clonePet(p), nil
}

func (r *PetRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePet(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PetRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *PetRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// setStatus lo usa AdoptionRepo dentro de su sección crítica.
func (r *PetRepo) setStatus(id int64, status pets.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.Status = status
	r.byID[id] = p
	return nil
}

func clonePet(p pets.Pet) pets.Pet {
	out := p
	if p.Tags != nil {
		out.Tags = append(out.Tags[:0:0], p.Tags...)
	}
	return out
}
