package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pet-adoption-store/internal/domain/tags"
)

type TagsRepo struct {
	db *sql.DB
}

func NewTagsRepo(db *sql.DB) *TagsRepo {
	return &TagsRepo{db: db}
}

var _ tags.Repository = (*TagsRepo)(nil)

func (r *TagsRepo) Create(ctx context.Context, t tags.Tag) (tags.Tag, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tags (name) VALUES ($1) RETURNING id`, t.Name,
	).Scan(&t.ID)
	if err != nil {
		return tags.Tag{}, err
	}
	return t, nil
}

func (r *TagsRepo) GetByID(ctx context.Context, id int64) (tags.Tag, error) {
	var t tags.Tag
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return tags.Tag{}, tags.ErrNotFound
	}
	if err != nil {
		return tags.Tag{}, err
	}
	return t, nil
}

func (r *TagsRepo) ListByIDs(ctx context.Context, ids []int64) ([]tags.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM tags WHERE id IN (`+strings.Join(placeholders, ",")+`) ORDER BY id ASC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

func (r *TagsRepo) List(ctx context.Context) ([]tags.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

func (r *TagsRepo) Update(ctx context.Context, t tags.Tag) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tags SET name = $2 WHERE id = $1`, t.ID, t.Name)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tags.ErrNotFound
	}
	return nil
}

func (r *TagsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tags.ErrNotFound
	}
	return nil
}

func scanTags(rows *sql.Rows) ([]tags.Tag, error) {
	out := make([]tags.Tag, 0)
	for rows.Next() {
		var t tags.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
