package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store is the subset of storage used by the models
type Store interface {
	Exec(ctx context.Context, query string, args ...interface{}) (int64, error)
	Insert(ctx context.Context, query string, args ...interface{}) (int64, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// where accumulates AND-ed conditions with their arguments
type where struct {
	clauses []string
	args    []interface{}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// contains adds a case-insensitive substring match; blank values are ignored.
// Both sides are folded by the database so the backends agree.
func (w *where) contains(column, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	w.clauses = append(w.clauses, fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, column))
	w.args = append(w.args, likePattern(value))
}

// anyContains matches value against any of the columns
func (w *where) anyContains(columns []string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, column)
		w.args = append(w.args, likePattern(value))
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) equals(column string, value interface{}) {
	w.clauses = append(w.clauses, column+" = ?")
	w.args = append(w.args, value)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// orderBy resolves a sort key against the allowed columns. The id column
// always breaks ties so results are stable.
func orderBy(key string, columns map[string]string, idColumn string) (string, error) {
	if key == "" {
		return " ORDER BY " + idColumn, nil
	}
	column, ok := columns[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidSort)
	}
	if column == idColumn {
		return " ORDER BY " + idColumn, nil
	}
	return fmt.Sprintf(" ORDER BY %s, %s", column, idColumn), nil
}
