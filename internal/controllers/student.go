package controllers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"student-records/internal/audit"
	"student-records/internal/export"
	"student-records/internal/logger"
	"student-records/internal/models"
)

// StudentColumns are the headers of the student listing and its export
var StudentColumns = []string{"ID", "Student No", "First Name", "Last Name", "Email", "Course"}

// StudentForm is the raw input of the student form. A nil CourseID means
// no course.
type StudentForm struct {
	StudentNo string
	FirstName string
	LastName  string
	Email     string
	CourseID  *int64
}

// CourseOption is one entry of the student form's course picker
type CourseOption struct {
	ID    int64
	Label string
}

// Result describes a successful mutation
type Result struct {
	ID      int64
	Message string
}

// Listing is a rendered table plus the record id behind each row
type Listing struct {
	Table export.Table
	IDs   []int64
}

// MissingCourseLabel is shown in place of a course that no longer exists
func MissingCourseLabel(id int64) string {
	return fmt.Sprintf("Missing course #%d", id)
}

// StudentController mediates between the student view and the models
type StudentController struct {
	students *models.StudentModel
	courses  *models.CourseModel
	audit    audit.Recorder
	logger   logger.Logger
}

func NewStudentController(students *models.StudentModel, courses *models.CourseModel, rec audit.Recorder, log logger.Logger) *StudentController {
	return &StudentController{
		students: students,
		courses:  courses,
		audit:    rec,
		logger:   log,
	}
}

// Add validates form and stores a new student
func (sc *StudentController) Add(ctx context.Context, form StudentForm) (Result, error) {
	if err := form.validate(); err != nil {
		return Result{}, err
	}

	record := form.record()
	id, err := sc.students.Create(ctx, record)
	if err != nil {
		return Result{}, sc.fail("add", err, nil)
	}

	record.ID = id
	sc.record(audit.ActionCreate, record)
	sc.logger.Info("StudentController", "student added", map[string]interface{}{
		"id":         id,
		"student_no": record.StudentNo,
	})
	return Result{ID: id, Message: "Student added successfully."}, nil
}

// Update replaces the fields of student id with form
func (sc *StudentController) Update(ctx context.Context, id int64, form StudentForm) (Result, error) {
	if err := form.validate(); err != nil {
		return Result{}, err
	}

	record := form.record()
	if err := sc.students.Update(ctx, id, record); err != nil {
		return Result{}, sc.fail("update", err, map[string]interface{}{"id": id})
	}

	record.ID = id
	sc.record(audit.ActionUpdate, record)
	sc.logger.Info("StudentController", "student updated", map[string]interface{}{"id": id})
	return Result{ID: id, Message: "Student updated successfully."}, nil
}

// Delete removes student id
func (sc *StudentController) Delete(ctx context.Context, id int64) (Result, error) {
	record, err := sc.students.Get(ctx, id)
	if err != nil {
		return Result{}, sc.fail("delete", err, map[string]interface{}{"id": id})
	}
	if err := sc.students.Delete(ctx, id); err != nil {
		return Result{}, sc.fail("delete", err, map[string]interface{}{"id": id})
	}

	sc.record(audit.ActionDelete, record)
	sc.logger.Info("StudentController", "student deleted", map[string]interface{}{"id": id})
	return Result{ID: id, Message: "Student deleted successfully."}, nil
}

// Load returns student id as form input
func (sc *StudentController) Load(ctx context.Context, id int64) (StudentForm, error) {
	s, err := sc.students.Get(ctx, id)
	if err != nil {
		return StudentForm{}, sc.fail("load", err, map[string]interface{}{"id": id})
	}
	return StudentForm{
		StudentNo: s.StudentNo,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		CourseID:  s.CourseID,
	}, nil
}

// List returns the students matching query across all text columns, by id
func (sc *StudentController) List(ctx context.Context, query string) (Listing, error) {
	students, err := sc.students.Search(ctx, models.StudentFilter{Text: query})
	if err != nil {
		return Listing{}, sc.fail("list", err, map[string]interface{}{"query": query})
	}

	listing := Listing{
		Table: export.Table{Title: "Students", Columns: StudentColumns, Rows: make([][]string, 0, len(students))},
		IDs:   make([]int64, 0, len(students)),
	}
	for _, s := range students {
		listing.Table.Rows = append(listing.Table.Rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.StudentNo,
			s.FirstName,
			s.LastName,
			s.Email,
			courseCell(s),
		})
		listing.IDs = append(listing.IDs, s.ID)
	}
	return listing, nil
}

// CourseOptions lists every course for the student form, by code
func (sc *StudentController) CourseOptions(ctx context.Context) ([]CourseOption, error) {
	courses, err := sc.courses.Search(ctx, models.CourseFilter{SortBy: "course_code"})
	if err != nil {
		return nil, sc.fail("course options", err, nil)
	}

	options := make([]CourseOption, 0, len(courses))
	for _, c := range courses {
		options = append(options, CourseOption{ID: c.ID, Label: c.Label()})
	}
	return options, nil
}

func courseCell(s models.Student) string {
	switch {
	case s.CourseID == nil:
		return ""
	case s.HasDanglingCourse():
		return MissingCourseLabel(*s.CourseID)
	default:
		return models.Course{Code: s.CourseCode, Name: s.CourseName}.Label()
	}
}

func (sc *StudentController) fail(op string, err error, fields map[string]interface{}) error {
	cerr := classify("Student", err)
	if cerr.Kind == KindStorage {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["operation"] = op
		sc.logger.Error("StudentController", err, fields)
	}
	return cerr
}

func (sc *StudentController) record(action audit.Action, s models.Student) {
	fields := map[string]interface{}{
		"student_no": s.StudentNo,
		"first_name": s.FirstName,
		"last_name":  s.LastName,
		"email":      s.Email,
	}
	if s.CourseID != nil {
		fields["course_id"] = *s.CourseID
	}
	sc.audit.Record(audit.Event{Action: action, Entity: "student", ID: s.ID, Fields: fields})
}

func (f StudentForm) validate() error {
	if err := requireFields(map[string]string{
		"student_no": f.StudentNo,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"email":      f.Email,
	}); err != nil {
		return err
	}
	return nil
}

func (f StudentForm) record() models.Student {
	return models.Student{
		StudentNo: strings.TrimSpace(f.StudentNo),
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		CourseID:  f.CourseID,
	}
}
