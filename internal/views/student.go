package views

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"student-records/internal/controllers"
	"student-records/internal/logger"
	"student-records/internal/theme"
)

const noCourse = "None"

// StudentView is the Students tab
type StudentView struct {
	*BaseView
	controller *controllers.StudentController

	courseIDs    map[string]int64
	courseLabels []string
	// loadedCourse is the course of the selected student as stored
	loadedCourse *int64
}

// NewStudentView creates the student tab. Call Reload to fill it.
func NewStudentView(ctx context.Context, window fyne.Window, controller *controllers.StudentController, themes *theme.Manager, log logger.Logger) *StudentView {
	sv := &StudentView{
		BaseView:   newBaseView(ctx, window, themes, log, "student", "students"),
		controller: controller,
		courseIDs:  make(map[string]int64),
	}
	sv.createComponents()
	sv.buildLayout()
	sv.setupEventHandlers()
	return sv
}

func (sv *StudentView) createComponents() {
	sv.form.AddEntry("student_no", "Student No", "e.g. S1001")
	sv.form.AddEntry("first_name", "First Name", "")
	sv.form.AddEntry("last_name", "Last Name", "")
	sv.form.AddEntry("email", "Email", "name@university.edu")
	sv.form.AddSelect("course", "Course", []string{noCourse}).SetSelected(noCourse)
}

func (sv *StudentView) setupEventHandlers() {
	sv.actions.SetAddHandler(sv.onAdd)
	sv.actions.SetUpdateHandler(sv.onUpdate)
	sv.actions.SetDeleteHandler(sv.onDelete)
	sv.actions.SetClearHandler(sv.onClear)
	sv.actions.SetSearchHandler(sv.onSearch)
	sv.table.SetSelectHandler(sv.onSelect)
}

// Reload refreshes the course options and the listing for the current search
func (sv *StudentView) Reload() {
	sv.refreshCourseOptions()
	sv.refresh(sv.actions.SearchText())
}

func (sv *StudentView) refresh(query string) bool {
	listing, err := sv.controller.List(sv.ctx, query)
	if err != nil {
		sv.ShowError(err)
		return false
	}
	sv.setListing(listing)
	sv.hasSelection = false
	sv.actions.SetEditMode(false)
	return true
}

func (sv *StudentView) refreshCourseOptions() {
	options, err := sv.controller.CourseOptions(sv.ctx)
	if err != nil {
		sv.ShowError(err)
		return
	}

	sv.courseIDs = make(map[string]int64, len(options))
	sv.courseLabels = make([]string, 0, len(options))
	for _, o := range options {
		sv.courseIDs[o.Label] = o.ID
		sv.courseLabels = append(sv.courseLabels, o.Label)
	}

	current := sv.form.Value("course")
	if _, ok := sv.courseIDs[current]; !ok {
		current = noCourse
	}
	sv.setCourseOptions(current, "")
}

// setCourseOptions rebuilds the picker from the known courses plus an
// optional extra entry and selects selected
func (sv *StudentView) setCourseOptions(selected, extra string) {
	options := append([]string{noCourse}, sv.courseLabels...)
	if extra != "" {
		options = append(options, extra)
	}

	sel := sv.form.Select("course")
	sel.Options = options
	sel.SetSelected(selected)
	sel.Refresh()
}

func (sv *StudentView) input() controllers.StudentForm {
	form := controllers.StudentForm{
		StudentNo: sv.form.Value("student_no"),
		FirstName: sv.form.Value("first_name"),
		LastName:  sv.form.Value("last_name"),
		Email:     sv.form.Value("email"),
	}
	label := sv.form.Value("course")
	if id, ok := sv.courseIDs[label]; ok {
		form.CourseID = &id
	} else if sv.hasSelection && sv.loadedCourse != nil && label == controllers.MissingCourseLabel(*sv.loadedCourse) {
		// an untouched dangling reference is kept as is
		form.CourseID = sv.loadedCourse
	}
	return form
}

func (sv *StudentView) onAdd() {
	sv.form.ClearErrors()
	res, err := sv.controller.Add(sv.ctx, sv.input())
	if err != nil {
		sv.ShowError(err)
		return
	}
	sv.clearSelection()
	sv.refresh(sv.actions.SearchText())
	sv.showSuccess(res.Message)
}

func (sv *StudentView) onUpdate() {
	if !sv.hasSelection {
		sv.showWarning("Please select a student to update.")
		return
	}

	sv.form.ClearErrors()
	res, err := sv.controller.Update(sv.ctx, sv.selected, sv.input())
	if err != nil {
		sv.ShowError(err)
		return
	}
	sv.clearSelection()
	sv.refresh(sv.actions.SearchText())
	sv.showSuccess(res.Message)
}

func (sv *StudentView) onDelete() {
	if !sv.hasSelection {
		sv.showWarning("Please select a student to delete.")
		return
	}
	dialog.ShowConfirm("Confirm Delete", "Are you sure you want to delete this student?", func(ok bool) {
		if ok {
			sv.deleteSelected()
		}
	}, sv.window)
}

func (sv *StudentView) deleteSelected() {
	res, err := sv.controller.Delete(sv.ctx, sv.selected)
	if err != nil {
		sv.ShowError(err)
		sv.refresh(sv.actions.SearchText())
		return
	}
	sv.clearSelection()
	sv.refresh(sv.actions.SearchText())
	sv.showSuccess(res.Message)
}

func (sv *StudentView) onClear() {
	sv.clearSelection()
	sv.refreshCourseOptions()
	sv.status.Reset()
}

func (sv *StudentView) onSearch(query string) {
	if sv.refresh(query) {
		sv.form.Reset()
		sv.status.SetStatus("Search complete")
	}
}

func (sv *StudentView) onSelect(row int) {
	id, ok := sv.selectRow(row)
	if !ok {
		return
	}

	form, err := sv.controller.Load(sv.ctx, id)
	if err != nil {
		sv.ShowError(err)
		sv.refresh(sv.actions.SearchText())
		return
	}

	sv.form.ClearErrors()
	sv.form.SetValue("student_no", form.StudentNo)
	sv.form.SetValue("first_name", form.FirstName)
	sv.form.SetValue("last_name", form.LastName)
	sv.form.SetValue("email", form.Email)
	sv.loadedCourse = form.CourseID
	sv.selectCourse(form.CourseID)
}

// selectCourse shows id in the picker, adding a placeholder entry when the
// course no longer exists
func (sv *StudentView) selectCourse(id *int64) {
	if id == nil {
		sv.setCourseOptions(noCourse, "")
		return
	}
	for label, optionID := range sv.courseIDs {
		if optionID == *id {
			sv.setCourseOptions(label, "")
			return
		}
	}

	missing := controllers.MissingCourseLabel(*id)
	sv.setCourseOptions(missing, missing)
}
