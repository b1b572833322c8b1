// Package store keeps the local pattern library in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

var (
	// ErrNotFound is returned when no pattern matches an ID or name.
	ErrNotFound = errors.New("pattern not found")
	// ErrAmbiguous is returned when a name or ID prefix matches several patterns.
	ErrAmbiguous = errors.New("ambiguous pattern reference")
)

// Store wraps the library database connection
type Store struct {
	conn *sql.DB
	path string
}

// Open opens the library at dbPath, creating it and running any pending
// migrations as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create library dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads while writes are serialized
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	conn.Exec("PRAGMA synchronous=NORMAL")
	conn.Exec("PRAGMA foreign_keys=ON")

	s := &Store{conn: conn, path: dbPath}

	err = s.withWriteLock(func() error {
		if _, err := conn.Exec(schema); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		_, err := s.runMigrations()
		return err
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ping checks the database connection is alive.
func (s *Store) Ping() error {
	return s.conn.Ping()
}

// Close checkpoints the WAL and closes the database connection.
func (s *Store) Close() error {
	s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.conn.Close()
}

// withWriteLock serializes writers across processes sharing the library.
func (s *Store) withWriteLock(fn func() error) error {
	if s.path == memoryPath {
		return fn()
	}
	locker := newWriteLocker(s.path + ".lock")
	if err := locker.acquire(defaultTimeout); err != nil {
		return err
	}
	defer locker.release()
	return fn()
}

// SchemaVersion returns the version recorded in schema_info, or 0.
func (s *Store) SchemaVersion() int {
	var version string
	err := s.conn.QueryRow("SELECT value FROM schema_info WHERE key = 'version'").Scan(&version)
	if err != nil {
		return 0
	}
	var v int
	fmt.Sscanf(version, "%d", &v)
	return v
}

func (s *Store) setSchemaVersion(version int) error {
	_, err := s.conn.Exec(`INSERT OR REPLACE INTO schema_info (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", version))
	return err
}

// runMigrations applies migrations newer than the recorded version. A fresh
// database already has the current schema, so column additions are skipped
// when the column exists.
func (s *Store) runMigrations() (int, error) {
	current := s.SchemaVersion()
	if current >= SchemaVersion {
		return 0, nil
	}

	run := 0
	for _, m := range Migrations {
		if m.Version <= current {
			continue
		}
		if m.Version == 3 {
			exists, err := s.columnExists("patterns", "source_path")
			if err != nil {
				return run, fmt.Errorf("check column source_path: %w", err)
			}
			if exists {
				if err := s.setSchemaVersion(m.Version); err != nil {
					return run, fmt.Errorf("set version %d: %w", m.Version, err)
				}
				run++
				continue
			}
		}
		if _, err := s.conn.Exec(m.SQL); err != nil {
			return run, fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if err := s.setSchemaVersion(m.Version); err != nil {
			return run, fmt.Errorf("set version %d: %w", m.Version, err)
		}
		run++
	}

	if err := s.setSchemaVersion(SchemaVersion); err != nil {
		return run, err
	}
	return run, nil
}

// columnExists checks whether a column exists on a table
func (s *Store) columnExists(table, column string) (bool, error) {
	rows, err := s.conn.Query(fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
