package adoptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-adoption-store/internal/domain/pets"
	"pet-adoption-store/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("adoption not found")
	ErrPetNotFound  = errors.New("pet not found")
	ErrForbidden    = errors.New("forbidden")
)

// NotAvailableError indica que la mascota no estaba AVAILABLE al momento
// de adoptar. Incluye el status actual para diagnóstico del caller.
type NotAvailableError struct {
	Status pets.Status
}

func (e NotAvailableError) Error() string {
	return fmt.Sprintf("pet is not available for adoption. Current status: %s", e.Status)
}

// Service es el ledger de adopciones. Cada operación recibe el caller
// explícitamente y evalúa el predicado de autorización al inicio.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Adopt adopta una mascota en nombre del caller. Siempre adopta para el
// caller autenticado; no acepta identidades suplantadas.
func (s *Service) Adopt(ctx context.Context, petID int64, caller auth.Claims) (Adoption, error) {
	if !caller.Present() {
		return Adoption{}, ErrForbidden
	}
	if petID <= 0 {
		return Adoption{}, ErrInvalidInput
	}

	return s.repo.Adopt(ctx, petID, caller.UserID, s.now())
}

// FindAll aplica visibilidad por rol: ADMIN ve todo, USER solo lo suyo.
func (s *Service) FindAll(ctx context.Context, caller auth.Claims) ([]Adoption, error) {
	if !caller.Present() {
		return nil, ErrForbidden
	}
	if caller.Role.IsAdmin() {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByUser(ctx, caller.UserID)
}

// ListForUser devuelve el historial de un usuario concreto.
// Solo el propio usuario o un admin pueden pedirlo.
func (s *Service) ListForUser(ctx context.Context, userID int64, caller auth.Claims) ([]Adoption, error) {
	if !caller.Present() {
		return nil, ErrForbidden
	}
	if !caller.Role.IsAdmin() && caller.UserID != userID {
		return nil, ErrForbidden
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) FindOne(ctx context.Context, id int64, caller auth.Claims) (Adoption, error) {
	if !caller.Present() {
		return Adoption{}, ErrForbidden
	}
	if id <= 0 {
		return Adoption{}, ErrNotFound
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Adoption{}, err
	}

	if !caller.Role.IsAdmin() && a.Adopter.ID != caller.UserID {
		return Adoption{}, ErrForbidden
	}
	return a, nil
}

type UpdateInput struct {
	// Superficie de patch restringida: las adopciones son inmutables en
	// flujo normal, esto existe solo para correcciones administrativas.
	AdoptionDate *time.Time
}

// Update aplica una corrección administrativa. El gate de lectura de
// FindOne aplica primero (NotFound/Forbidden idénticos), después el
// gate ADMIN para editar.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput, caller auth.Claims) (Adoption, error) {
	a, err := s.FindOne(ctx, id, caller)
	if err != nil {
		return Adoption{}, err
	}

	if !caller.Role.IsAdmin() {
		return Adoption{}, ErrForbidden
	}

	if in.AdoptionDate == nil {
		return a, nil
	}
	if in.AdoptionDate.IsZero() {
		return Adoption{}, ErrInvalidInput
	}

	a.AdoptionDate = *in.AdoptionDate
	if err := s.repo.Update(ctx, a); err != nil {
		return Adoption{}, err
	}
	return a, nil
}

// Remove borra el registro (solo ADMIN). El status de la mascota queda
// SOLD: revertir inventario al borrar sigue pendiente de definición de
// producto.
func (s *Service) Remove(ctx context.Context, id int64, caller auth.Claims) error {
	_, err := s.FindOne(ctx, id, caller)
	if err != nil {
		return err
	}

	if !caller.Role.IsAdmin() {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
