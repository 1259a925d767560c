package journal

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema versions:
// 0 - edits table
// 1 - index on op for per-op history queries
const currentSchemaVersion = 1

// Journal is an append-only edit log stored in SQLite.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal at path and brings its schema up to date.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// One writer; SQLite serializes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

func applyPragmas(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version < 1 {
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_edits_op ON edits (op)`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func (j *Journal) pragma(name string) (string, error) {
	var value string
	if err := j.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return value, nil
}
