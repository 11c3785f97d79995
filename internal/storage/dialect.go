package storage

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	// sqliteDriver is go-sqlite3 with lower() replaced by a Unicode-aware
	// version. The builtin only folds ASCII letters.
	sqliteDriver = "sqlite3_unicode"
)

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// dialect captures the few places where SQLite and PostgreSQL disagree
type dialect struct {
	name      string
	driver    string
	schema    []string
	returning bool
	numbered  bool
}

var sqliteDialect = dialect{
	name:   DriverSQLite,
	driver: sqliteDriver,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			course_code TEXT    UNIQUE NOT NULL,
			course_name TEXT    NOT NULL,
			lecturer    TEXT    NOT NULL,
			credits     INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			student_no TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL,
			course_id  INTEGER,
			FOREIGN KEY (course_id) REFERENCES courses (id)
		)`,
	},
}

// No foreign key on course_id: a deleted course leaves dangling references,
// matching SQLite where enforcement is off by default.
var postgresDialect = dialect{
	name:   DriverPostgres,
	driver: DriverPostgres,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS courses (
			id          BIGSERIAL PRIMARY KEY,
			course_code TEXT    UNIQUE NOT NULL,
			course_name TEXT    NOT NULL,
			lecturer    TEXT    NOT NULL,
			credits     INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id         BIGSERIAL PRIMARY KEY,
			student_no TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL,
			course_id  BIGINT
		)`,
	},
	returning: true,
	numbered:  true,
}

// rebind rewrites ? placeholders into $1, $2, ... for drivers that need it.
// Question marks inside single-quoted literals are left alone.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
