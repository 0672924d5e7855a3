package pets

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"pet-adoption-store/internal/domain/tags"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrTagNotFound  = errors.New("some tags not found")
)

type Service struct {
	repo Repository
	tags tags.Repository
}

func NewService(repo Repository, tagsRepo tags.Repository) *Service {
	return &Service{repo: repo, tags: tagsRepo}
}

type CreateInput struct {
	Name     string
	Species  string
	Price    decimal.Decimal
	Age      int
	ImageURL string
	Status   string
	TagIDs   []int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	name := strings.TrimSpace(in.Name)
	species := strings.TrimSpace(in.Species)
	if name == "" || species == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Age < 0 {
		return Pet{}, ErrInvalidInput
	}

	status := Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusAvailable
	}
	if !status.Valid() {
		return Pet{}, ErrInvalidInput
	}

	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	resolved, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return Pet{}, err
	}

	return s.repo.Create(ctx, Pet{
		Name:     name,
		Species:  species,
		Price:    in.Price,
		Age:      in.Age,
		ImageURL: imageURL,
		Status:   status,
		Tags:     resolved,
	})
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	if id <= 0 {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name     *string
	Species  *string
	Price    *decimal.Decimal
	Age      *int
	ImageURL *string
	Status   *string
	// TagIDs no-nil reemplaza el set completo de tags.
	TagIDs *[]int64
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Species != nil {
		species := strings.TrimSpace(*in.Species)
		if species == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Species = species
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return Pet{}, ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.Age = *in.Age
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Status != nil {
		status := Status(strings.TrimSpace(*in.Status))
		if !status.Valid() {
			return Pet{}, ErrInvalidInput
		}
		p.Status = status
	}
	if in.TagIDs != nil {
		resolved, err := s.resolveTags(ctx, *in.TagIDs)
		if err != nil {
			return Pet{}, err
		}
		p.Tags = resolved
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// resolveTags valida que TODOS los tags pedidos existan.
func (s *Service) resolveTags(ctx context.Context, ids []int64) ([]tags.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resolved, err := s.tags.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	seen := map[int64]struct{}{}
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	if len(resolved) != len(seen) {
		return nil, ErrTagNotFound
	}
	return resolved, nil
}
