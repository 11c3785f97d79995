package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"student-records/internal/storage"
)

// Student is one row of the students table. CourseCode and CourseName are
// joined from courses and stay empty when the reference is null or dangling.
type Student struct {
	ID         int64  `db:"id"`
	StudentNo  string `db:"student_no" validate:"required,max=32"`
	FirstName  string `db:"first_name" validate:"required,max=100"`
	LastName   string `db:"last_name" validate:"required,max=100"`
	Email      string `db:"email" validate:"required,email,max=254"`
	CourseID   *int64 `db:"course_id"`
	CourseCode string `db:"-"`
	CourseName string `db:"-"`
}

// FullName joins first and last name
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// HasDanglingCourse reports a course reference whose course no longer exists
func (s Student) HasDanglingCourse() bool {
	return s.CourseID != nil && s.CourseCode == ""
}

func (s *Student) normalize() {
	s.StudentNo = strings.TrimSpace(s.StudentNo)
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
}

// StudentFilter is a partial student used to narrow a search. Blank text
// fields match everything; Text is matched against every text column.
type StudentFilter struct {
	Text      string
	StudentNo string
	FirstName string
	LastName  string
	Email     string
	CourseID  *int64
	SortBy    string
}

var studentSortColumns = map[string]string{
	"id":         "s.id",
	"student_no": "s.student_no",
	"first_name": "s.first_name",
	"last_name":  "s.last_name",
	"email":      "s.email",
	"course":     "c.course_name",
}

const studentSelect = `SELECT s.id, s.student_no, s.first_name, s.last_name, s.email, s.course_id,
	c.course_code, c.course_name
	FROM students s LEFT JOIN courses c ON c.id = s.course_id`

// StudentModel exposes CRUD and search over the students table
type StudentModel struct {
	store Store
}

func NewStudentModel(store Store) *StudentModel {
	return &StudentModel{store: store}
}

// Create validates and inserts a student, returning its new id
func (m *StudentModel) Create(ctx context.Context, s Student) (int64, error) {
	s.normalize()
	if err := validateRecord("student", s); err != nil {
		return 0, err
	}

	id, err := m.store.Insert(ctx,
		"INSERT INTO students (student_no, first_name, last_name, email, course_id) VALUES (?, ?, ?, ?, ?)",
		s.StudentNo, s.FirstName, s.LastName, s.Email, nullableID(s.CourseID))
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return 0, fmt.Errorf("student number %q: %w", s.StudentNo, ErrDuplicate)
		}
		return 0, fmt.Errorf("create student: %w", err)
	}
	return id, nil
}

// Get fetches one student by id
func (m *StudentModel) Get(ctx context.Context, id int64) (Student, error) {
	row := m.store.QueryRow(ctx, studentSelect+" WHERE s.id = ?", id)

	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Student{}, fmt.Errorf("get student %d: %w", id, err)
	}
	return s, nil
}

// Update replaces every editable field of student id
func (m *StudentModel) Update(ctx context.Context, id int64, s Student) error {
	s.normalize()
	if err := validateRecord("student", s); err != nil {
		return err
	}

	affected, err := m.store.Exec(ctx,
		"UPDATE students SET student_no = ?, first_name = ?, last_name = ?, email = ?, course_id = ? WHERE id = ?",
		s.StudentNo, s.FirstName, s.LastName, s.Email, nullableID(s.CourseID), id)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return fmt.Errorf("student number %q: %w", s.StudentNo, ErrDuplicate)
		}
		return fmt.Errorf("update student %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes student id
func (m *StudentModel) Delete(ctx context.Context, id int64) error {
	affected, err := m.store.Exec(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return nil
}

// Search returns the students matching f, ascending by f.SortBy (id when
// empty). No match yields an empty slice.
func (m *StudentModel) Search(ctx context.Context, f StudentFilter) ([]Student, error) {
	order, err := orderBy(f.SortBy, studentSortColumns, "s.id")
	if err != nil {
		return nil, err
	}

	var w where
	w.anyContains([]string{
		"s.student_no", "s.first_name", "s.last_name", "s.email",
		"s.first_name || ' ' || s.last_name",
	}, f.Text)
	w.contains("s.student_no", f.StudentNo)
	w.contains("s.first_name", f.FirstName)
	w.contains("s.last_name", f.LastName)
	w.contains("s.email", f.Email)
	if f.CourseID != nil {
		w.equals("s.course_id", *f.CourseID)
	}

	rows, err := m.store.Query(ctx, studentSelect+w.String()+order, w.args...)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	defer rows.Close()

	students := make([]Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("search students: scan: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}

// Count returns the number of stored students
func (m *StudentModel) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.store.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&n); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row scanner) (Student, error) {
	var (
		s          Student
		courseID   sql.NullInt64
		courseCode sql.NullString
		courseName sql.NullString
	)
	err := row.Scan(&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &s.Email,
		&courseID, &courseCode, &courseName)
	if err != nil {
		return Student{}, err
	}
	if courseID.Valid {
		id := courseID.Int64
		s.CourseID = &id
	}
	s.CourseCode = courseCode.String
	s.CourseName = courseName.String
	return s, nil
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
