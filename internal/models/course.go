package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"student-records/internal/storage"
)

// Course is one row of the courses table
type Course struct {
	ID       int64  `db:"id"`
	Code     string `db:"course_code" validate:"required,max=16"`
	Name     string `db:"course_name" validate:"required,max=100"`
	Lecturer string `db:"lecturer" validate:"required,max=100"`
	Credits  int    `db:"credits" validate:"gte=0,lte=60"`
}

// Label is the text used to pick a course, e.g. "CS101 - Computer Science"
func (c Course) Label() string {
	return c.Code + " - " + c.Name
}

func (c *Course) normalize() {
	c.Code = strings.TrimSpace(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	c.Lecturer = strings.TrimSpace(c.Lecturer)
}

// CourseFilter is a partial course used to narrow a search
type CourseFilter struct {
	Text     string
	Code     string
	Name     string
	Lecturer string
	Credits  *int
	SortBy   string
}

var courseSortColumns = map[string]string{
	"id":          "id",
	"course_code": "course_code",
	"course_name": "course_name",
	"lecturer":    "lecturer",
	"credits":     "credits",
}

const courseSelect = "SELECT id, course_code, course_name, lecturer, credits FROM courses"

// CourseModel exposes CRUD and search over the courses table
type CourseModel struct {
	store Store
}

func NewCourseModel(store Store) *CourseModel {
	return &CourseModel{store: store}
}

// Create validates and inserts a course, returning its new id
func (m *CourseModel) Create(ctx context.Context, c Course) (int64, error) {
	c.normalize()
	if err := validateRecord("course", c); err != nil {
		return 0, err
	}

	id, err := m.store.Insert(ctx,
		"INSERT INTO courses (course_code, course_name, lecturer, credits) VALUES (?, ?, ?, ?)",
		c.Code, c.Name, c.Lecturer, c.Credits)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return 0, fmt.Errorf("course code %q: %w", c.Code, ErrDuplicate)
		}
		return 0, fmt.Errorf("create course: %w", err)
	}
	return id, nil
}

// Get fetches one course by id
func (m *CourseModel) Get(ctx context.Context, id int64) (Course, error) {
	var c Course
	err := m.store.QueryRow(ctx, courseSelect+" WHERE id = ?", id).
		Scan(&c.ID, &c.Code, &c.Name, &c.Lecturer, &c.Credits)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Course{}, fmt.Errorf("get course %d: %w", id, err)
	}
	return c, nil
}

// Update replaces every editable field of course id
func (m *CourseModel) Update(ctx context.Context, id int64, c Course) error {
	c.normalize()
	if err := validateRecord("course", c); err != nil {
		return err
	}

	affected, err := m.store.Exec(ctx,
		"UPDATE courses SET course_code = ?, course_name = ?, lecturer = ?, credits = ? WHERE id = ?",
		c.Code, c.Name, c.Lecturer, c.Credits, id)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return fmt.Errorf("course code %q: %w", c.Code, ErrDuplicate)
		}
		return fmt.Errorf("update course %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes course id. Students referencing it keep the dangling id.
func (m *CourseModel) Delete(ctx context.Context, id int64) error {
	affected, err := m.store.Exec(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	return nil
}

// Search returns the courses matching f, ascending by f.SortBy (id when empty)
func (m *CourseModel) Search(ctx context.Context, f CourseFilter) ([]Course, error) {
	order, err := orderBy(f.SortBy, courseSortColumns, "id")
	if err != nil {
		return nil, err
	}

	var w where
	w.anyContains([]string{"course_code", "course_name", "lecturer"}, f.Text)
	w.contains("course_code", f.Code)
	w.contains("course_name", f.Name)
	w.contains("lecturer", f.Lecturer)
	if f.Credits != nil {
		w.equals("credits", *f.Credits)
	}

	rows, err := m.store.Query(ctx, courseSelect+w.String()+order, w.args...)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	defer rows.Close()

	courses := make([]Course, 0)
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Lecturer, &c.Credits); err != nil {
			return nil, fmt.Errorf("search courses: scan: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

// Count returns the number of stored courses
func (m *CourseModel) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.store.QueryRow(ctx, "SELECT COUNT(*) FROM courses").Scan(&n); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}
