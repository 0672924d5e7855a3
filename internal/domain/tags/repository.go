package tags

import "context"

type Repository interface {
	Create(ctx context.Context, t Tag) (Tag, error)
	GetByID(ctx context.Context, id int64) (Tag, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Tag, error)
	List(ctx context.Context) ([]Tag, error)
	Update(ctx context.Context, t Tag) error
	Delete(ctx context.Context, id int64) error
}
