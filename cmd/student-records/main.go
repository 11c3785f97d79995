package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/fatih/color"

	"student-records/internal/audit"
	"student-records/internal/config"
	"student-records/internal/controllers"
	"student-records/internal/logger"
	"student-records/internal/models"
	"student-records/internal/shutdown"
	"student-records/internal/storage"
	"student-records/internal/theme"
	"student-records/internal/views"
)

const (
	AppID      = "com.studentrecords.desktop"
	AppVersion = "1.0.0"
)

// Application owns the window, the MVC components and their resources
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  *logger.ZerologAdapter
	config  *config.Config

	view     *views.MainView
	themes   *theme.Manager
	shutdown *shutdown.Manager
}

func main() {
	application, err := NewApplication()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "student-records: %v\n", err)
		os.Exit(1)
	}

	application.Run()

	if err := application.shutdown.Shutdown(); err != nil {
		color.New(color.FgYellow).Fprintf(os.Stderr, "student-records: shutdown: %v\n", err)
	}
	application.logger.Close()
}

// NewApplication loads configuration and wires storage, models,
// controllers and views. Resources opened so far are released on error.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	// main closes the logger after the manager has finished
	shut := shutdown.NewManager(appLogger)

	application, err := build(cfg, appLogger, shut)
	if err != nil {
		shut.Shutdown()
		appLogger.Close()
		return nil, err
	}
	return application, nil
}

func build(cfg *config.Config, appLogger *logger.ZerologAdapter, shut *shutdown.Manager) (*Application, error) {
	appLogger.Info("Application", "starting", map[string]interface{}{
		"version": AppVersion,
		"env":     cfg.Env,
		"driver":  cfg.Database.Driver,
	})

	store, err := storage.Open(cfg.Database, appLogger)
	if err != nil {
		return nil, err
	}
	shut.RegisterCloser("storage", store)

	recorder, err := openAudit(cfg.Audit, shut)
	if err != nil {
		return nil, err
	}

	themes, err := theme.NewManager(cfg.UI.ThemeFile, cfg.UI.PersistTheme, appLogger)
	if err != nil {
		return nil, err
	}

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    cfg.UI.Title,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(themes.Theme())

	window := fyneApp.NewWindow(cfg.UI.Title)
	window.Resize(fyne.NewSize(float32(cfg.UI.Width), float32(cfg.UI.Height)))
	window.CenterOnScreen()

	studentModel := models.NewStudentModel(store)
	courseModel := models.NewCourseModel(store)

	view := views.NewMainView(shut.Context(), window,
		controllers.NewStudentController(studentModel, courseModel, recorder, appLogger),
		controllers.NewCourseController(courseModel, studentModel, recorder, appLogger),
		themes, appLogger)

	application := &Application{
		fyneApp:  fyneApp,
		window:   window,
		logger:   appLogger,
		config:   cfg,
		view:     view,
		themes:   themes,
		shutdown: shut,
	}
	application.setupWindowEvents()
	application.setupGracefulShutdown()

	appLogger.Info("Application", "initialized", map[string]interface{}{
		"database": cfg.Database.Path,
		"theme":    themes.Current(),
		"audit":    cfg.Audit.Enabled,
	})
	return application, nil
}

func openAudit(cfg config.Audit, shut *shutdown.Manager) (audit.Recorder, error) {
	if !cfg.Enabled {
		return audit.Nop(), nil
	}
	trail, err := audit.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	shut.RegisterCloser("audit", trail)
	return trail, nil
}

// Run shows the window and blocks until the UI loop exits
func (a *Application) Run() {
	a.logger.Info("Application", "starting UI", nil)
	a.window.ShowAndRun()
	a.logger.Info("Application", "UI stopped", nil)
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(a.confirmExit)
	a.view.SetQuitHandler(a.confirmExit)
}

func (a *Application) confirmExit() {
	a.logger.Debug("Application", "exit requested", nil)
	dialog.ShowConfirm("Exit Application", "Are you sure you want to exit?", func(confirmed bool) {
		if confirmed {
			a.fyneApp.Quit()
		}
	}, a.window)
}

// setupGracefulShutdown stops the UI on SIGINT/SIGTERM. Resources are
// closed by main once Run returns.
func (a *Application) setupGracefulShutdown() {
	a.shutdown.OnSignal(func() {
		fyne.Do(a.fyneApp.Quit)
	})
	a.shutdown.Listen()
}
