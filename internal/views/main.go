package views

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynetheme "fyne.io/fyne/v2/theme"

	"student-records/internal/controllers"
	"student-records/internal/logger"
	"student-records/internal/theme"
)

const (
	TabStudents = "Students"
	TabCourses  = "Courses"
)

// MainView holds the Students and Courses tabs and the main menu
type MainView struct {
	window fyne.Window
	themes *theme.Manager
	logger logger.Logger

	tabs     *container.AppTabs
	students *StudentView
	courses  *CourseView

	// Event handlers - connected by the application
	quitHandler func()
}

// NewMainView builds both tabs, sets the window content and menu and
// loads the first tab
func NewMainView(
	ctx context.Context,
	window fyne.Window,
	studentController *controllers.StudentController,
	courseController *controllers.CourseController,
	themes *theme.Manager,
	log logger.Logger,
) *MainView {
	mv := &MainView{
		window: window,
		themes: themes,
		logger: log,
	}

	mv.students = NewStudentView(ctx, window, studentController, themes, log)
	mv.courses = NewCourseView(ctx, window, courseController, themes, log)

	mv.buildLayout()
	mv.setupEventHandlers()
	mv.students.Reload()

	return mv
}

func (mv *MainView) buildLayout() {
	mv.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon(TabStudents, fynetheme.AccountIcon(), mv.students.GetContainer()),
		container.NewTabItemWithIcon(TabCourses, fynetheme.ListIcon(), mv.courses.GetContainer()),
	)
	mv.tabs.SetTabLocation(container.TabLocationTop)

	mv.window.SetContent(mv.tabs)
	mv.window.SetMainMenu(mv.buildMenu())
}

func (mv *MainView) buildMenu() *fyne.MainMenu {
	quit := fyne.NewMenuItem("Quit", func() {
		if mv.quitHandler != nil {
			mv.quitHandler()
		}
	})
	quit.IsQuit = true

	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Export Students...", func() {
			mv.SelectTab(TabStudents)
			mv.students.showExportDialog()
		}),
		fyne.NewMenuItem("Export Courses...", func() {
			mv.SelectTab(TabCourses)
			mv.courses.showExportDialog()
		}),
		fyne.NewMenuItemSeparator(),
		quit,
	)

	view := fyne.NewMenu("View",
		fyne.NewMenuItem("Toggle Theme", mv.students.toggleTheme),
	)

	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mv.showAbout),
	)

	return fyne.NewMainMenu(file, view, help)
}

func (mv *MainView) setupEventHandlers() {
	mv.tabs.OnSelected = func(item *container.TabItem) {
		mv.reloadTab(item.Text)
	}
	mv.themes.OnChange(func(name string) {
		mv.ApplyTheme()
	})
}

func (mv *MainView) reloadTab(name string) {
	mv.logger.Debug("MainView", "tab selected", map[string]interface{}{"tab": name})
	switch name {
	case TabStudents:
		mv.students.Reload()
	case TabCourses:
		mv.courses.Reload()
	}
}

// ApplyTheme sets the active palette on the running app
func (mv *MainView) ApplyTheme() {
	fyne.CurrentApp().Settings().SetTheme(mv.themes.Theme())
}

// SelectTab switches to the named tab, reloading it
func (mv *MainView) SelectTab(name string) {
	for i, item := range mv.tabs.Items {
		if item.Text == name {
			if mv.tabs.SelectedIndex() == i {
				mv.reloadTab(name)
				return
			}
			mv.tabs.SelectIndex(i)
			return
		}
	}
}

// SelectedTab returns the name of the visible tab
func (mv *MainView) SelectedTab() string {
	if item := mv.tabs.Selected(); item != nil {
		return item.Text
	}
	return ""
}

func (mv *MainView) showAbout() {
	dialog.ShowInformation("About",
		"Student Records\n\nManage students and the courses they are enrolled in.\nExport the listed records as CSV, XLSX or text.",
		mv.window)
}

// SetQuitHandler sets the handler for the File > Quit menu item
func (mv *MainView) SetQuitHandler(handler func()) {
	mv.quitHandler = handler
}

// Students returns the student tab
func (mv *MainView) Students() *StudentView {
	return mv.students
}

// Courses returns the course tab
func (mv *MainView) Courses() *CourseView {
	return mv.courses
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}
