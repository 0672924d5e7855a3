package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"pet-adoption-store/internal/domain/pets"
	"pet-adoption-store/internal/domain/tags"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pets.Pet{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO pets (name, species, price, age, image_url, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		p.Name,
		p.Species,
		p.Price.StringFixed(2),
		p.Age,
		p.ImageURL,
		string(p.Status),
	).Scan(&p.ID)
	if err != nil {
		return pets.Pet{}, err
	}

	if err := replaceTagLinks(ctx, tx, p.ID, p.Tags); err != nil {
		return pets.Pet{}, err
	}

	if err := tx.Commit(); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, species, price, age, image_url, status
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	petTags, err := r.tagsFor(ctx, id)
	if err != nil {
		return pets.Pet{}, err
	}
	p.Tags = petTags
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, species, price, age, image_url, status
		FROM pets
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// un solo query para los tags de todo el listado
	tagRows, err := r.db.QueryContext(ctx, `
		SELECT pt.pet_id, t.id, t.name
		FROM pet_tags pt
		JOIN tags t ON t.id = pt.tag_id
		ORDER BY pt.pet_id ASC, t.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()

	byPet := map[int64][]tags.Tag{}
	for tagRows.Next() {
		var petID int64
		var t tags.Tag
		if err := tagRows.Scan(&petID, &t.ID, &t.Name); err != nil {
			return nil, err
		}
		byPet[petID] = append(byPet[petID], t)
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Tags = byPet[out[i].ID]
	}
	return out, nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE pets
		SET name = $2, species = $3, price = $4, age = $5, image_url = $6, status = $7
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Price.StringFixed(2),
		p.Age,
		p.ImageURL,
		string(p.Status),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}

	if err := replaceTagLinks(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) tagsFor(ctx context.Context, petID int64) ([]tags.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name
		FROM pet_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.pet_id = $1
		ORDER BY t.id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

func replaceTagLinks(ctx context.Context, tx *sql.Tx, petID int64, petTags []tags.Tag) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM pet_tags WHERE pet_id = $1`, petID); err != nil {
		return err
	}
	for _, t := range petTags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pet_tags (pet_id, tag_id) VALUES ($1,$2)`, petID, t.ID,
		); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var price string
	var status string
	if err := row.Scan(&p.ID, &p.Name, &p.Species, &price, &p.Age, &p.ImageURL, &status); err != nil {
		return pets.Pet{}, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return pets.Pet{}, err
	}
	p.Price = parsed
	p.Status = pets.Status(status)
	return p, nil
}
