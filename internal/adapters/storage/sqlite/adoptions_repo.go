package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"pet-adoption-store/internal/domain/adoptions"
	"pet-adoption-store/internal/domain/pets"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

var _ adoptions.Repository = (*AdoptionsRepo)(nil)

// Adopt ejecuta chequeo + insert + cambio de status en una sola
// transacción. SQLite serializa las escrituras (y el pool corre con una
// sola conexión), así que no hace falta FOR UPDATE: el update
// condicional sobre status = 'AVAILABLE' es la guarda final y cero
// filas afectadas = la mascota ya no estaba disponible.
func (r *AdoptionsRepo) Adopt(ctx context.Context, petID, userID int64, at time.Time) (adoptions.Adoption, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return adoptions.Adoption{}, err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM pets WHERE id = ?`, petID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Adoption{}, adoptions.ErrPetNotFound
	}
	if err != nil {
		return adoptions.Adoption{}, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE pets SET status = ? WHERE id = ? AND status = ?`,
		string(pets.StatusSold), petID, string(pets.StatusAvailable),
	)
	if err != nil {
		return adoptions.Adoption{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return adoptions.Adoption{}, adoptions.NotAvailableError{Status: pets.Status(status)}
	}

	ins, err := tx.ExecContext(ctx, `
		INSERT INTO adoptions (adoption_date, user_id, pet_id)
		VALUES (?,?,?)
	`, at.UTC().Format(time.RFC3339Nano), userID, petID)
	if err != nil {
		return adoptions.Adoption{}, err
	}

	id, err := ins.LastInsertId()
	if err != nil {
		return adoptions.Adoption{}, err
	}

	if err := tx.Commit(); err != nil {
		return adoptions.Adoption{}, err
	}

	return r.GetByID(ctx, id)
}

const adoptionSelect = `
	SELECT
		a.id, a.adoption_date,
		u.id, u.email, u.full_name, u.role,
		p.id, p.name, p.species, p.price, p.age, p.image_url, p.status
	FROM adoptions a
	JOIN users u ON u.id = a.user_id
	JOIN pets p ON p.id = a.pet_id
`

func (r *AdoptionsRepo) GetByID(ctx context.Context, id int64) (adoptions.Adoption, error) {
	row := r.db.QueryRowContext(ctx, adoptionSelect+` WHERE a.id = ?`, id)

	a, err := scanAdoption(row)
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Adoption{}, adoptions.ErrNotFound
	}
	return a, err
}

func (r *AdoptionsRepo) ListAll(ctx context.Context) ([]adoptions.Adoption, error) {
	rows, err := r.db.QueryContext(ctx,
		adoptionSelect+` ORDER BY a.adoption_date DESC, a.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAdoptions(rows)
}

func (r *AdoptionsRepo) ListByUser(ctx context.Context, userID int64) ([]adoptions.Adoption, error) {
	rows, err := r.db.QueryContext(ctx,
		adoptionSelect+` WHERE a.user_id = ? ORDER BY a.adoption_date DESC, a.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAdoptions(rows)
}

func (r *AdoptionsRepo) Update(ctx context.Context, a adoptions.Adoption) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE adoptions SET adoption_date = ? WHERE id = ?`,
		a.AdoptionDate.UTC().Format(time.RFC3339Nano), a.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func (r *AdoptionsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM adoptions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func collectAdoptions(rows *sql.Rows) ([]adoptions.Adoption, error) {
	out := make([]adoptions.Adoption, 0)
	for rows.Next() {
		a, err := scanAdoption(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAdoption(row rowScanner) (adoptions.Adoption, error) {
	var a adoptions.Adoption
	var date, role, price, status string
	err := row.Scan(
		&a.ID, &date,
		&a.Adopter.ID, &a.Adopter.Email, &a.Adopter.FullName, &role,
		&a.Pet.ID, &a.Pet.Name, &a.Pet.Species, &price, &a.Pet.Age, &a.Pet.ImageURL, &status,
	)
	if err != nil {
		return adoptions.Adoption{}, err
	}

	when, err := parseTime(date)
	if err != nil {
		return adoptions.Adoption{}, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return adoptions.Adoption{}, err
	}
	a.AdoptionDate = when
	a.Pet.Price = parsed
	a.Pet.Status = pets.Status(status)
	a.Adopter.Role = roleOf(role)
	return a, nil
}
