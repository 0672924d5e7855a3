package tags

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("tag not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, ErrInvalidInput
	}
	return s.repo.Create(ctx, Tag{Name: name})
}

func (s *Service) GetByID(ctx context.Context, id int64) (Tag, error) {
	if id <= 0 {
		return Tag{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Tag, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, ErrInvalidInput
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Tag{}, err
	}

	t.Name = name
	if err := s.repo.Update(ctx, t); err != nil {
		return Tag{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
