package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre un pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. El UNIQUE sobre
// adoptions.pet_id respalda el invariante de una adopción por mascota,
// además del update condicional de la transacción de adopción.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT 'OTHER',
			role TEXT NOT NULL DEFAULT 'USER',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pets (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			species TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			age INT NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'AVAILABLE'
		)`,
		`CREATE TABLE IF NOT EXISTS pet_tags (
			pet_id BIGINT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
			tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (pet_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS adoptions (
			id BIGSERIAL PRIMARY KEY,
			adoption_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			user_id BIGINT NOT NULL REFERENCES users(id),
			pet_id BIGINT NOT NULL UNIQUE REFERENCES pets(id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
