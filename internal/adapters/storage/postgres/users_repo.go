package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"pet-adoption-store/internal/domain/users"
	"pet-adoption-store/internal/ports/auth"
)

const pgUniqueViolation = "23505"

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ users.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Create(ctx context.Context, u users.User) (users.User, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, gender, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		u.Email,
		u.PasswordHash,
		u.FullName,
		string(u.Gender),
		string(u.Role),
		u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return users.User{}, users.ErrEmailTaken
		}
		return users.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (users.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *UsersRepo) get(ctx context.Context, where string, arg any) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, gender, role, created_at
		FROM users `+where, arg)

	var u users.User
	var gender, role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &gender, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	u.Gender = users.Gender(gender)
	u.Role = roleOf(role)
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, password_hash, full_name, gender, role, created_at
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		var gender, role string
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &gender, &role, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Gender = users.Gender(gender)
		u.Role = roleOf(role)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, password_hash = $3, full_name = $4, gender = $5, role = $6
		WHERE id = $1
	`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		string(u.Gender),
		string(u.Role),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func roleOf(raw string) auth.Role {
	role := auth.Role(raw)
	if !role.Valid() {
		return auth.RoleUser
	}
	return role
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}
