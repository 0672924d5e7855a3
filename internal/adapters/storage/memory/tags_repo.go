package memory

import (
	"context"
	"sort"
	"sync"

	"pet-adoption-store/internal/domain/tags"
)

var _ tags.Repository = (*TagRepo)(nil)

type TagRepo struct {
	mu     sync.RWMutex
	byID   map[int64]tags.Tag
	nextID int64
}

func NewTagRepo() *TagRepo {
	return &TagRepo{byID: make(map[int64]tags.Tag)}
}

func (r *TagRepo) Create(ctx context.Context, t tags.Tag) (tags.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	r.byID[t.ID] = t
	return t, nil
}

func (r *TagRepo) GetByID(ctx context.Context, id int64) (tags.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return tags.Tag{}, tags.ErrNotFound
	}
	return t, nil
}

func (r *TagRepo) ListByIDs(ctx context.Context, ids []int64) ([]tags.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[int64]struct{}{}
	out := make([]tags.Tag, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if t, ok := r.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TagRepo) List(ctx context.Context) ([]tags.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tags.Tag, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TagRepo) Update(ctx context.Context, t tags.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return tags.ErrNotFound
	}
	r.byID[t.ID] = t
	return nil
}

func (r *TagRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return tags.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
