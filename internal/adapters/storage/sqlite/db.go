// Package sqlite es el backend embebido: mismo contrato que postgres,
// pensado para instalaciones single-box y demos sin servidor de base
// de datos.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) la base en path con foreign keys activas y aplica
// el esquema.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// un solo writer: SQLite serializa escrituras de todos modos
	db.SetMaxOpenConns(1)

	if err := ensureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT 'OTHER',
			role TEXT NOT NULL DEFAULT 'USER',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			species TEXT NOT NULL,
			price TEXT NOT NULL DEFAULT '0.00',
			age INTEGER NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'AVAILABLE'
		)`,
		`CREATE TABLE IF NOT EXISTS pet_tags (
			pet_id INTEGER NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (pet_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS adoptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			adoption_date TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			pet_id INTEGER NOT NULL UNIQUE REFERENCES pets(id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
