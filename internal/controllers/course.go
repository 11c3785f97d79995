package controllers

import (
	"context"
	"strconv"
	"strings"

	"student-records/internal/audit"
	"student-records/internal/export"
	"student-records/internal/logger"
	"student-records/internal/models"
)

// CourseColumns are the headers of the course listing and its export
var CourseColumns = []string{"ID", "Course Code", "Course Name", "Lecturer", "Credits"}

// CourseForm is the raw input of the course form; credits are typed as text
type CourseForm struct {
	Code     string
	Name     string
	Lecturer string
	Credits  string
}

// CourseController mediates between the course view and the models
type CourseController struct {
	courses  *models.CourseModel
	students *models.StudentModel
	audit    audit.Recorder
	logger   logger.Logger
}

func NewCourseController(courses *models.CourseModel, students *models.StudentModel, rec audit.Recorder, log logger.Logger) *CourseController {
	return &CourseController{
		courses:  courses,
		students: students,
		audit:    rec,
		logger:   log,
	}
}

// Add validates form and stores a new course
func (cc *CourseController) Add(ctx context.Context, form CourseForm) (Result, error) {
	record, err := form.record()
	if err != nil {
		return Result{}, err
	}

	id, err := cc.courses.Create(ctx, record)
	if err != nil {
		return Result{}, cc.fail("add", err, nil)
	}

	record.ID = id
	cc.record(audit.ActionCreate, record)
	cc.logger.Info("CourseController", "course added", map[string]interface{}{
		"id":          id,
		"course_code": record.Code,
	})
	return Result{ID: id, Message: "Course added successfully."}, nil
}

// Update replaces the fields of course id with form
func (cc *CourseController) Update(ctx context.Context, id int64, form CourseForm) (Result, error) {
	record, err := form.record()
	if err != nil {
		return Result{}, err
	}

	if err := cc.courses.Update(ctx, id, record); err != nil {
		return Result{}, cc.fail("update", err, map[string]interface{}{"id": id})
	}

	record.ID = id
	cc.record(audit.ActionUpdate, record)
	cc.logger.Info("CourseController", "course updated", map[string]interface{}{"id": id})
	return Result{ID: id, Message: "Course updated successfully."}, nil
}

// Delete removes course id. Students still enrolled keep a dangling
// reference, which is logged.
func (cc *CourseController) Delete(ctx context.Context, id int64) (Result, error) {
	record, err := cc.courses.Get(ctx, id)
	if err != nil {
		return Result{}, cc.fail("delete", err, map[string]interface{}{"id": id})
	}
	if err := cc.courses.Delete(ctx, id); err != nil {
		return Result{}, cc.fail("delete", err, map[string]interface{}{"id": id})
	}

	cc.record(audit.ActionDelete, record)
	cc.logger.Info("CourseController", "course deleted", map[string]interface{}{"id": id})

	enrolled, err := cc.students.Search(ctx, models.StudentFilter{CourseID: &id})
	if err != nil {
		cc.logger.Error("CourseController", err, map[string]interface{}{"operation": "enrolled lookup", "id": id})
	} else if len(enrolled) > 0 {
		cc.logger.Warning("CourseController", "students reference a deleted course", map[string]interface{}{
			"id":       id,
			"students": len(enrolled),
		})
	}
	return Result{ID: id, Message: "Course deleted successfully."}, nil
}

// Load returns course id as form input
func (cc *CourseController) Load(ctx context.Context, id int64) (CourseForm, error) {
	c, err := cc.courses.Get(ctx, id)
	if err != nil {
		return CourseForm{}, cc.fail("load", err, map[string]interface{}{"id": id})
	}
	return CourseForm{
		Code:     c.Code,
		Name:     c.Name,
		Lecturer: c.Lecturer,
		Credits:  strconv.Itoa(c.Credits),
	}, nil
}

// List returns the courses matching query across all text columns, by id
func (cc *CourseController) List(ctx context.Context, query string) (Listing, error) {
	courses, err := cc.courses.Search(ctx, models.CourseFilter{Text: query})
	if err != nil {
		return Listing{}, cc.fail("list", err, map[string]interface{}{"query": query})
	}

	listing := Listing{
		Table: export.Table{Title: "Courses", Columns: CourseColumns, Rows: make([][]string, 0, len(courses))},
		IDs:   make([]int64, 0, len(courses)),
	}
	for _, c := range courses {
		listing.Table.Rows = append(listing.Table.Rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Code,
			c.Name,
			c.Lecturer,
			strconv.Itoa(c.Credits),
		})
		listing.IDs = append(listing.IDs, c.ID)
	}
	return listing, nil
}

func (cc *CourseController) fail(op string, err error, fields map[string]interface{}) error {
	cerr := classify("Course", err)
	if cerr.Kind == KindStorage {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["operation"] = op
		cc.logger.Error("CourseController", err, fields)
	}
	return cerr
}

func (cc *CourseController) record(action audit.Action, c models.Course) {
	cc.audit.Record(audit.Event{
		Action: action,
		Entity: "course",
		ID:     c.ID,
		Fields: map[string]interface{}{
			"course_code": c.Code,
			"course_name": c.Name,
			"lecturer":    c.Lecturer,
			"credits":     c.Credits,
		},
	})
}

// record checks required fields, then parses credits
func (f CourseForm) record() (models.Course, error) {
	if err := requireFields(map[string]string{
		"course_code": f.Code,
		"course_name": f.Name,
		"lecturer":    f.Lecturer,
		"credits":     f.Credits,
	}); err != nil {
		return models.Course{}, err
	}

	credits, err := strconv.Atoi(strings.TrimSpace(f.Credits))
	if err != nil {
		return models.Course{}, validationError(msgCredits, map[string]string{"credits": msgCredits})
	}

	return models.Course{
		Code:     strings.TrimSpace(f.Code),
		Name:     strings.TrimSpace(f.Name),
		Lecturer: strings.TrimSpace(f.Lecturer),
		Credits:  credits,
	}, nil
}
