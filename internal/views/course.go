package views

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"student-records/internal/controllers"
	"student-records/internal/logger"
	"student-records/internal/theme"
)

// CourseView is the Courses tab
type CourseView struct {
	*BaseView
	controller *controllers.CourseController
}

// NewCourseView creates the course tab. Call Reload to fill it.
func NewCourseView(ctx context.Context, window fyne.Window, controller *controllers.CourseController, themes *theme.Manager, log logger.Logger) *CourseView {
	cv := &CourseView{
		BaseView:   newBaseView(ctx, window, themes, log, "course", "courses"),
		controller: controller,
	}
	cv.createComponents()
	cv.buildLayout()
	cv.setupEventHandlers()
	return cv
}

func (cv *CourseView) createComponents() {
	cv.form.AddEntry("course_code", "Course Code", "e.g. CS101")
	cv.form.AddEntry("course_name", "Course Name", "")
	cv.form.AddEntry("lecturer", "Lecturer", "")
	cv.form.AddEntry("credits", "Credits", "0-60")
}

func (cv *CourseView) setupEventHandlers() {
	cv.actions.SetAddHandler(cv.onAdd)
	cv.actions.SetUpdateHandler(cv.onUpdate)
	cv.actions.SetDeleteHandler(cv.onDelete)
	cv.actions.SetClearHandler(cv.onClear)
	cv.actions.SetSearchHandler(cv.onSearch)
	cv.table.SetSelectHandler(cv.onSelect)
}

// Reload refreshes the listing for the current search
func (cv *CourseView) Reload() {
	cv.refresh(cv.actions.SearchText())
}

func (cv *CourseView) refresh(query string) bool {
	listing, err := cv.controller.List(cv.ctx, query)
	if err != nil {
		cv.ShowError(err)
		return false
	}
	cv.setListing(listing)
	cv.hasSelection = false
	cv.actions.SetEditMode(false)
	return true
}

func (cv *CourseView) input() controllers.CourseForm {
	return controllers.CourseForm{
		Code:     cv.form.Value("course_code"),
		Name:     cv.form.Value("course_name"),
		Lecturer: cv.form.Value("lecturer"),
		Credits:  cv.form.Value("credits"),
	}
}

func (cv *CourseView) onAdd() {
	cv.form.ClearErrors()
	res, err := cv.controller.Add(cv.ctx, cv.input())
	if err != nil {
		cv.ShowError(err)
		return
	}
	cv.clearSelection()
	cv.refresh(cv.actions.SearchText())
	cv.showSuccess(res.Message)
}

func (cv *CourseView) onUpdate() {
	if !cv.hasSelection {
		cv.showWarning("Please select a course to update.")
		return
	}

	cv.form.ClearErrors()
	res, err := cv.controller.Update(cv.ctx, cv.selected, cv.input())
	if err != nil {
		cv.ShowError(err)
		return
	}
	cv.clearSelection()
	cv.refresh(cv.actions.SearchText())
	cv.showSuccess(res.Message)
}

func (cv *CourseView) onDelete() {
	if !cv.hasSelection {
		cv.showWarning("Please select a course to delete.")
		return
	}
	dialog.ShowConfirm("Confirm Delete",
		"Are you sure you want to delete this course? Students enrolled in it will show it as missing.",
		func(ok bool) {
			if ok {
				cv.deleteSelected()
			}
		}, cv.window)
}

func (cv *CourseView) deleteSelected() {
	res, err := cv.controller.Delete(cv.ctx, cv.selected)
	if err != nil {
		cv.ShowError(err)
		cv.refresh(cv.actions.SearchText())
		return
	}
	cv.clearSelection()
	cv.refresh(cv.actions.SearchText())
	cv.showSuccess(res.Message)
}

func (cv *CourseView) onClear() {
	cv.clearSelection()
	cv.status.Reset()
}

func (cv *CourseView) onSearch(query string) {
	if cv.refresh(query) {
		cv.form.Reset()
		cv.status.SetStatus("Search complete")
	}
}

func (cv *CourseView) onSelect(row int) {
	id, ok := cv.selectRow(row)
	if !ok {
		return
	}

	form, err := cv.controller.Load(cv.ctx, id)
	if err != nil {
		cv.ShowError(err)
		cv.refresh(cv.actions.SearchText())
		return
	}

	cv.form.ClearErrors()
	cv.form.SetValue("course_code", form.Code)
	cv.form.SetValue("course_name", form.Name)
	cv.form.SetValue("lecturer", form.Lecturer)
	cv.form.SetValue("credits", form.Credits)
}
