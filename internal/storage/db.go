// Package storage owns the SQLite database shared by the bot modules.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// busyTimeoutMillis lets concurrent writers wait on SQLite's file lock instead of failing.
const busyTimeoutMillis = 5000

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id       TEXT PRIMARY KEY,
	username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	task    TEXT NOT NULL,
	user_id TEXT NOT NULL REFERENCES users(id),
	date    TEXT NOT NULL,
	status  TEXT NOT NULL DEFAULT 'to-do'
		CHECK (status IN ('to-do', 'working-on-it', 'completed'))
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks (user_id, date);

CREATE TABLE IF NOT EXISTS guild_prefixes (
	guild_id TEXT PRIMARY KEY,
	prefix   TEXT NOT NULL
);
`

// SchemaSQL returns the authoritative schema. Tests load it into in-memory databases.
func SchemaSQL() string {
	return schemaSQL
}

// Open opens the database at path, creating the parent directory if needed.
// The schema is not applied; call Migrate for that.
func Open(path string) (*sql.DB, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", path, busyTimeoutMillis)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if path == MemoryPath {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// Migrate applies the schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// OpenAndMigrate opens the database at path and applies the schema.
func OpenAndMigrate(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
