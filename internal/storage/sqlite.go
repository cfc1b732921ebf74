// Package storage persists the resolution history in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database recording resolution history.
type Store struct {
	db *sql.DB
}

// migrations are applied in order; schema_version tracks progress so new
// versions can be appended safely.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS resolutions (
		id             TEXT PRIMARY KEY,
		description    TEXT NOT NULL,
		classification TEXT NOT NULL DEFAULT '',
		confidence     REAL NOT NULL DEFAULT 0,
		success        INTEGER NOT NULL DEFAULT 0,
		error_code     TEXT NOT NULL DEFAULT '',
		profile_name   TEXT NOT NULL DEFAULT '',
		profile_json   TEXT NOT NULL DEFAULT '',
		environment    TEXT NOT NULL DEFAULT '',
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_resolutions_created ON resolutions(created_at DESC);`,
}

// Open opens (or creates) a SQLite database in dataDir and applies pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "quirk.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	for i, stmt := range migrations {
		version := i + 1

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

// SaveResolution records one pipeline run.
func (s *Store) SaveResolution(r Resolution) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO resolutions
		(id, description, classification, confidence, success, error_code, profile_name, profile_json, environment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Description, r.Classification, r.Confidence, boolToInt(r.Success),
		r.ErrorCode, r.ProfileName, r.ProfileJSON, r.Environment, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving resolution: %w", err)
	}
	return nil
}

// GetResolution fetches a single recorded run by ID.
func (s *Store) GetResolution(id string) (Resolution, error) {
	row := s.db.QueryRow(`SELECT id, description, classification, confidence, success, error_code, profile_name, profile_json, environment, created_at
		FROM resolutions WHERE id = ?`, id)
	r, err := scanResolution(row)
	if err == sql.ErrNoRows {
		return Resolution{}, ErrNotFound
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("getting resolution: %w", err)
	}
	return r, nil
}

// ListResolutions returns the most recent runs, newest first. limit <= 0
// defaults to 20.
func (s *Store) ListResolutions(limit int) ([]Resolution, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT id, description, classification, confidence, success, error_code, profile_name, profile_json, environment, created_at
		FROM resolutions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing resolutions: %w", err)
	}
	defer rows.Close()

	var out []Resolution
	for rows.Next() {
		r, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning resolution: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResolution(row scanner) (Resolution, error) {
	var r Resolution
	var success int
	if err := row.Scan(
		&r.ID, &r.Description, &r.Classification, &r.Confidence, &success,
		&r.ErrorCode, &r.ProfileName, &r.ProfileJSON, &r.Environment, &r.CreatedAt,
	); err != nil {
		return Resolution{}, err
	}
	r.Success = success != 0
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
