package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pet-adoption-store/internal/domain/users"
	"pet-adoption-store/internal/ports/auth"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ users.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Create(ctx context.Context, u users.User) (users.User, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, gender, role, created_at)
		VALUES (?,?,?,?,?,?)
	`,
		u.Email,
		u.PasswordHash,
		u.FullName,
		string(u.Gender),
		string(u.Role),
		u.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return users.User{}, users.ErrEmailTaken
		}
		return users.User{}, err
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return users.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (users.User, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.get(ctx, `WHERE email = ?`, email)
}

func (r *UsersRepo) get(ctx context.Context, where string, arg any) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, gender, role, created_at
		FROM users `+where, arg)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrNotFound
	}
	return u, err
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
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, password_hash = ?, full_name = ?, gender = ?, role = ?
		WHERE id = ?
	`,
		u.Email,
		u.PasswordHash,
		u.FullName,
		string(u.Gender),
		string(u.Role),
		u.ID,
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

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User
	var gender, role, createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &gender, &role, &createdAt); err != nil {
		return users.User{}, err
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return users.User{}, err
	}
	u.CreatedAt = t
	u.Gender = users.Gender(gender)
	u.Role = roleOf(role)
	return u, nil
}

func roleOf(raw string) auth.Role {
	role := auth.Role(raw)
	if !role.Valid() {
		return auth.RoleUser
	}
	return role
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type rowScanner interface {
	Scan(dest ...any) error
}
