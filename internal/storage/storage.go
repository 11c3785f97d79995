// Package storage owns the single database handle of the application. It
// opens (or creates) the database, ensures the students and courses tables
// exist and runs parameterized statements on behalf of the models.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"student-records/internal/config"
	"student-records/internal/logger"
)

// Storage wraps a *sql.DB together with the dialect it was opened with
type Storage struct {
	db      *sql.DB
	dialect dialect
	logger  logger.Logger
}

// Open opens the configured database and creates the schema if absent
func Open(cfg config.Database, log logger.Logger) (*Storage, error) {
	var (
		d   dialect
		dsn string
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		d = sqliteDialect
		dsn = cfg.Path
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
	case DriverPostgres:
		d = postgresDialect
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", d.name, err)
	}

	if d.name == DriverSQLite {
		// One writer, one process. A single connection also keeps ":memory:"
		// databases alive across statements.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", d.name, err)
	}

	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: create schema: %w", err)
		}
	}

	log.Info("Storage", "database ready", map[string]interface{}{
		"driver": d.name,
		"path":   cfg.Path,
	})

	return &Storage{db: db, dialect: d, logger: log}, nil
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create dir %s: %w", dir, err)
	}
	return nil
}

// Exec runs a statement and returns the number of affected rows
func (s *Storage) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("storage: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: rows affected: %w", err)
	}
	return affected, nil
}

// Insert runs an INSERT and returns the generated id
func (s *Storage) Insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if s.dialect.returning {
		var id int64
		row := s.db.QueryRowContext(ctx, s.dialect.rebind(query+" RETURNING id"), args...)
		if err := row.Scan(&id); err != nil {
			return 0, fmt.Errorf("storage: insert: %w", err)
		}
		return id, nil
	}

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("storage: insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: last insert id: %w", err)
	}
	return id, nil
}

// Query runs a statement returning rows. The caller closes the rows.
func (s *Storage) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query: %w", err)
	}
	return rows, nil
}

// QueryRow runs a statement expected to return at most one row
func (s *Storage) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// Driver reports the driver the storage was opened with
func (s *Storage) Driver() string {
	return s.dialect.name
}

// Close closes the underlying database
func (s *Storage) Close() error {
	s.logger.Info("Storage", "closing database", nil)
	return s.db.Close()
}

// IsUniqueViolation reports whether err is a unique constraint failure
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
