package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The handle is shared by every store worker
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the tables if they are missing. It never alters existing ones.
func (db *DB) Migrate() error {
	queries := []string{
		// Call history
		`CREATE TABLE IF NOT EXISTS calls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT NOT NULL,
			time INTEGER NOT NULL DEFAULT 0,
			ring_time INTEGER NOT NULL DEFAULT 0,
			duration INTEGER NOT NULL DEFAULT 0
		)`,

		// Known callers, number is not unique
		`CREATE TABLE IF NOT EXISTS callers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			last_update INTEGER NOT NULL DEFAULT 0,
			type TEXT NOT NULL DEFAULT '',
			offline INTEGER NOT NULL DEFAULT 0
		)`,

		// User marked numbers
		`CREATE TABLE IF NOT EXISTS marked_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT NOT NULL,
			type INTEGER NOT NULL DEFAULT 0,
			type_name TEXT NOT NULL DEFAULT '',
			time INTEGER NOT NULL DEFAULT 0,
			reported INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_calls_time ON calls(time)`,
		`CREATE INDEX IF NOT EXISTS idx_callers_number ON callers(number)`,
		`CREATE INDEX IF NOT EXISTS idx_marked_records_number ON marked_records(number)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
