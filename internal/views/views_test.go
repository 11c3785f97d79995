package views

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/internal/audit"
	"student-records/internal/config"
	"student-records/internal/controllers"
	"student-records/internal/logger"
	"student-records/internal/models"
	"student-records/internal/storage"
	"student-records/internal/theme"
)

type harness struct {
	view   *MainView
	themes *theme.Manager
	window fyne.Window
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	test.NewTempApp(t)

	store, err := storage.Open(config.Database{Driver: storage.DriverSQLite, Path: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	studentModel := models.NewStudentModel(store)
	courseModel := models.NewCourseModel(store)
	log := logger.Nop()

	themes, err := theme.NewManager(filepath.Join(t.TempDir(), "theme.yaml"), true, log)
	require.NoError(t, err)

	window := test.NewWindow(nil)
	t.Cleanup(window.Close)

	view := NewMainView(context.Background(), window,
		controllers.NewStudentController(studentModel, courseModel, audit.Nop(), log),
		controllers.NewCourseController(courseModel, studentModel, audit.Nop(), log),
		themes, log)

	return &harness{view: view, themes: themes, window: window}
}

func fillStudent(sv *StudentView, no, first, last, email string) {
	sv.Form().SetValue("student_no", no)
	sv.Form().SetValue("first_name", first)
	sv.Form().SetValue("last_name", last)
	sv.Form().SetValue("email", email)
}

func fillCourse(cv *CourseView, code, name, lecturer, credits string) {
	cv.Form().SetValue("course_code", code)
	cv.Form().SetValue("course_name", name)
	cv.Form().SetValue("lecturer", lecturer)
	cv.Form().SetValue("credits", credits)
}

func TestAddStudent(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	fillStudent(sv, "S1001", "John", "Doe", "john.doe@university.edu")
	test.Tap(sv.Actions().AddButton())

	assert.Equal(t, "Student added successfully.", sv.Status().GetStatus())
	assert.Equal(t, "1 student", sv.Status().GetCount())
	require.Equal(t, 1, sv.Table().Len())
	assert.Equal(t, []string{"1", "S1001", "John", "Doe", "john.doe@university.edu", ""}, sv.Table().Rows[0])
	assert.Empty(t, sv.Form().Value("student_no"), "form is cleared after add")
}

func TestAddStudentBlankShowsInlineError(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	sv.Form().SetValue("student_no", "S1001")
	test.Tap(sv.Actions().AddButton())

	assert.Equal(t, "All fields are required.", sv.Form().Message())
	assert.Equal(t, "required", sv.Form().FieldError("first_name"))
	assert.Empty(t, sv.Form().FieldError("student_no"))
	assert.Equal(t, 0, sv.Table().Len())
	assert.Equal(t, "S1001", sv.Form().Value("student_no"), "input is kept for correction")
}

func TestAddStudentInvalidEmail(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	fillStudent(sv, "S1001", "John", "Doe", "invalid-email")
	test.Tap(sv.Actions().AddButton())

	assert.NotEmpty(t, sv.Form().FieldError("email"))
	assert.Equal(t, 0, sv.Table().Len())
}

func TestSelectLoadsFormAndTogglesButtons(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	fillStudent(sv, "S1001", "John", "Doe", "john.doe@university.edu")
	test.Tap(sv.Actions().AddButton())
	assert.False(t, sv.Actions().AddButton().Disabled())
	assert.True(t, sv.Actions().UpdateButton().Disabled())

	sv.SelectRow(0)

	id, ok := sv.Selected()
	require.True(t, ok)
	assert.EqualValues(t, 1, id)
	assert.Equal(t, "S1001", sv.Form().Value("student_no"))
	assert.Equal(t, noCourse, sv.Form().Value("course"))
	assert.True(t, sv.Actions().AddButton().Disabled())
	assert.False(t, sv.Actions().UpdateButton().Disabled())
	assert.False(t, sv.Actions().DeleteButton().Disabled())

	test.Tap(sv.Actions().ClearButton())
	_, ok = sv.Selected()
	assert.False(t, ok)
	assert.Empty(t, sv.Form().Value("student_no"))
	assert.False(t, sv.Actions().AddButton().Disabled())
	assert.True(t, sv.Actions().DeleteButton().Disabled())
}

func TestUpdateStudent(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	fillStudent(sv, "S1001", "John", "Doe", "john.doe@university.edu")
	test.Tap(sv.Actions().AddButton())
	sv.SelectRow(0)

	sv.Form().SetValue("email", "john.doe.updated@university.edu")
	test.Tap(sv.Actions().UpdateButton())

	assert.Equal(t, "Student updated successfully.", sv.Status().GetStatus())
	require.Equal(t, 1, sv.Table().Len())
	assert.Equal(t, "john.doe.updated@university.edu", sv.Table().Rows[0][4])
	_, ok := sv.Selected()
	assert.False(t, ok)
}

func TestDeleteWithoutSelectionWarns(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	sv.onDelete()
	assert.Equal(t, "Please select a student to delete.", sv.Status().GetStatus())

	cv := h.view.Courses()
	cv.onUpdate()
	assert.Equal(t, "Please select a course to update.", cv.Status().GetStatus())
}

func TestDeleteStudent(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	for _, no := range []string{"S1001", "S1002"} {
		fillStudent(sv, no, "John", "Doe", "john.doe@university.edu")
		test.Tap(sv.Actions().AddButton())
	}
	require.Equal(t, 2, sv.Table().Len())

	sv.SelectRow(0)
	sv.deleteSelected()

	assert.Equal(t, "Student deleted successfully.", sv.Status().GetStatus())
	require.Equal(t, 1, sv.Table().Len())
	assert.Equal(t, "S1002", sv.Table().Rows[0][1])
}

func TestSearchFiltersListing(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	fillStudent(sv, "S1001", "John", "Doe", "john@university.edu")
	test.Tap(sv.Actions().AddButton())
	fillStudent(sv, "S1002", "Jane", "Smith", "jane@university.edu")
	test.Tap(sv.Actions().AddButton())

	sv.Actions().SearchEntry().SetText("smith")
	test.Tap(sv.Actions().SearchButton())
	require.Equal(t, 1, sv.Table().Len())
	assert.Equal(t, "S1002", sv.Table().Rows[0][1])

	sv.Actions().SearchEntry().SetText("nobody")
	test.Tap(sv.Actions().SearchButton())
	assert.Equal(t, 0, sv.Table().Len())
	assert.Equal(t, "0 students", sv.Status().GetCount())
}

func TestCourseCreditsMustBeWholeNumber(t *testing.T) {
	h := newHarness(t)
	h.view.SelectTab(TabCourses)
	cv := h.view.Courses()

	fillCourse(cv, "CS101", "Computer Science", "Dr. Smith", "three")
	test.Tap(cv.Actions().AddButton())

	assert.Equal(t, "Credits must be a whole number.", cv.Form().Message())
	assert.Equal(t, 0, cv.Table().Len())
}

func TestCourseOptionsAndDanglingReference(t *testing.T) {
	h := newHarness(t)

	h.view.SelectTab(TabCourses)
	cv := h.view.Courses()
	fillCourse(cv, "CS101", "Computer Science", "Dr. Smith", "3")
	test.Tap(cv.Actions().AddButton())
	require.Equal(t, 1, cv.Table().Len())

	h.view.SelectTab(TabStudents)
	assert.Equal(t, TabStudents, h.view.SelectedTab())
	sv := h.view.Students()
	assert.Contains(t, sv.Form().Select("course").Options, "CS101 - Computer Science")

	fillStudent(sv, "S1001", "John", "Doe", "john.doe@university.edu")
	sv.Form().SetValue("course", "CS101 - Computer Science")
	test.Tap(sv.Actions().AddButton())
	require.Equal(t, 1, sv.Table().Len())
	assert.Equal(t, "CS101 - Computer Science", sv.Table().Rows[0][5])

	h.view.SelectTab(TabCourses)
	cv.SelectRow(0)
	cv.deleteSelected()
	assert.Equal(t, "Course deleted successfully.", cv.Status().GetStatus())

	h.view.SelectTab(TabStudents)
	assert.Equal(t, controllers.MissingCourseLabel(1), sv.Table().Rows[0][5])

	sv.SelectRow(0)
	assert.Equal(t, controllers.MissingCourseLabel(1), sv.Form().Value("course"))

	sv.Form().SetValue("first_name", "Johnny")
	test.Tap(sv.Actions().UpdateButton())
	assert.Equal(t, "Student updated successfully.", sv.Status().GetStatus())
	assert.Equal(t, controllers.MissingCourseLabel(1), sv.Table().Rows[0][5], "dangling reference is kept")
}

func TestCoursePlaceholderDroppedOnNextSelect(t *testing.T) {
	h := newHarness(t)

	h.view.SelectTab(TabCourses)
	cv := h.view.Courses()
	fillCourse(cv, "CS101", "Computer Science", "Dr. Smith", "3")
	test.Tap(cv.Actions().AddButton())
	fillCourse(cv, "MATH101", "Mathematics", "Dr. Jones", "4")
	test.Tap(cv.Actions().AddButton())
	require.Equal(t, 2, cv.Table().Len())

	h.view.SelectTab(TabStudents)
	sv := h.view.Students()
	fillStudent(sv, "S1001", "John", "Doe", "john.doe@university.edu")
	sv.Form().SetValue("course", "CS101 - Computer Science")
	test.Tap(sv.Actions().AddButton())
	fillStudent(sv, "S1002", "Jane", "Roe", "jane.roe@university.edu")
	sv.Form().SetValue("course", "MATH101 - Mathematics")
	test.Tap(sv.Actions().AddButton())
	require.Equal(t, 2, sv.Table().Len())

	h.view.SelectTab(TabCourses)
	cv.SelectRow(0)
	cv.deleteSelected()

	h.view.SelectTab(TabStudents)
	missing := controllers.MissingCourseLabel(1)
	sv.SelectRow(0)
	assert.Contains(t, sv.Form().Select("course").Options, missing)

	sv.SelectRow(1)
	assert.Equal(t, "MATH101 - Mathematics", sv.Form().Value("course"))
	assert.Equal(t, []string{noCourse, "MATH101 - Mathematics"}, sv.Form().Select("course").Options)
}

func TestExportTo(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	fillStudent(sv, "S1001", "John", "Doe", "john.doe@university.edu")
	test.Tap(sv.Actions().AddButton())

	path := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, sv.ExportTo(path))
	assert.Equal(t, "Logs exported successfully to "+path, sv.Status().GetStatus())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, controllers.StudentColumns, records[0])
	assert.Equal(t, "S1001", records[1][1])
}

func TestExportToUnsupportedExtension(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()

	assert.Error(t, sv.ExportTo(filepath.Join(t.TempDir(), "students.pdf")))
}

func TestThemeToggle(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()
	cv := h.view.Courses()

	assert.Equal(t, "Dark Mode", sv.Actions().ThemeButton().Text)

	test.Tap(sv.Actions().ThemeButton())

	assert.Equal(t, theme.Dark, h.themes.Current())
	assert.Equal(t, "Light Mode", sv.Actions().ThemeButton().Text)
	assert.Equal(t, "Light Mode", cv.Actions().ThemeButton().Text)
	assert.Equal(t, "Dark theme applied", sv.Status().GetStatus())

	current, ok := fyne.CurrentApp().Settings().Theme().(*theme.Fyne)
	require.True(t, ok)
	assert.Equal(t, theme.Dark, current.Name())
}

func TestThemeToggleKeepsData(t *testing.T) {
	h := newHarness(t)
	sv := h.view.Students()
	ctx := context.Background()

	fillStudent(sv, "S1001", "John", "Doe", "john.doe@university.edu")
	test.Tap(sv.Actions().AddButton())
	before, err := sv.controller.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, before.IDs, 1)

	test.Tap(sv.Actions().ThemeButton())
	test.Tap(sv.Actions().ThemeButton())

	after, err := sv.controller.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, theme.Light, h.themes.Current())
}

func TestMainMenu(t *testing.T) {
	h := newHarness(t)

	menu := h.window.MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 3)
	assert.Equal(t, "File", menu.Items[0].Label)
	assert.Equal(t, "View", menu.Items[1].Label)
	assert.Equal(t, "Help", menu.Items[2].Label)

	quitCalled := false
	h.view.SetQuitHandler(func() { quitCalled = true })
	items := menu.Items[0].Items
	items[len(items)-1].Action()
	assert.True(t, quitCalled)
}
