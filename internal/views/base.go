package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"student-records/internal/controllers"
	"student-records/internal/export"
	"student-records/internal/logger"
	"student-records/internal/theme"
	"student-records/internal/views/components"
)

// BaseView carries what the student and course views share: the form,
// action bar, results table, status bar, selection state, theme toggle and
// export
type BaseView struct {
	ctx    context.Context
	window fyne.Window
	themes *theme.Manager
	logger logger.Logger

	// noun is the singular record name used in messages, e.g. "student"
	noun   string
	plural string

	form      *components.Form
	actions   *components.ActionBar
	table     *components.RecordTable
	status    *components.StatusBar
	container *fyne.Container

	listing      controllers.Listing
	selected     int64
	hasSelection bool
}

func newBaseView(ctx context.Context, window fyne.Window, themes *theme.Manager, log logger.Logger, noun, plural string) *BaseView {
	bv := &BaseView{
		ctx:    ctx,
		window: window,
		themes: themes,
		logger: log,
		noun:   noun,
		plural: plural,
	}
	bv.createComponents()
	bv.setupEventHandlers()
	return bv
}

func (bv *BaseView) createComponents() {
	bv.form = components.NewForm(titleCase(bv.noun) + " Details")
	bv.actions = components.NewActionBar()
	bv.table = components.NewRecordTable()
	bv.status = components.NewStatusBar(bv.plural)
	bv.actions.SetThemeLabel(themeButtonLabel(bv.themes.Next()))
}

// buildLayout must run after the concrete view has added its form fields
func (bv *BaseView) buildLayout() {
	split := container.NewHSplit(
		container.NewVScroll(container.NewPadded(bv.form.GetContainer())),
		bv.table.GetWidget(),
	)
	split.Offset = 0.35

	bv.container = container.NewBorder(
		container.NewPadded(bv.actions.GetContainer()),
		bv.status.GetContainer(),
		nil,
		nil,
		split,
	)
}

func (bv *BaseView) setupEventHandlers() {
	bv.actions.SetExportHandler(bv.showExportDialog)
	bv.actions.SetThemeHandler(bv.toggleTheme)
	bv.themes.OnChange(func(string) {
		bv.actions.SetThemeLabel(themeButtonLabel(bv.themes.Next()))
	})
}

func (bv *BaseView) toggleTheme() {
	name, err := bv.themes.Toggle()
	if err != nil {
		bv.ShowError(fmt.Errorf("save theme: %w", err))
		return
	}
	bv.status.SetStatus(titleCase(name) + " theme applied")
}

// ExportTo writes the displayed rows to path. The format follows the
// extension: .csv (default), .xlsx or .txt.
func (bv *BaseView) ExportTo(path string) error {
	if err := export.ToFile(path, bv.table.Data()); err != nil {
		bv.logger.Error("View", err, map[string]interface{}{"path": path})
		return err
	}
	bv.exported(path)
	return nil
}

func (bv *BaseView) exported(path string) {
	bv.logger.Info("View", "listing exported", map[string]interface{}{
		"path": path,
		"rows": bv.table.Data().Len(),
	})
	bv.status.SetStatus("Logs exported successfully to " + path)
}

func (bv *BaseView) showExportDialog() {
	data := bv.table.Data()

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			bv.ShowError(err)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		format, err := export.FormatFromPath(writer.URI().Name())
		if err != nil {
			bv.ShowError(err)
			return
		}
		if err := export.Write(writer, format, data); err != nil {
			bv.logger.Error("View", err, map[string]interface{}{"uri": writer.URI().String()})
			bv.ShowError(err)
			return
		}
		bv.exported(writer.URI().Path())
		dialog.ShowInformation("Export Logs", "Logs exported successfully to "+writer.URI().Path(), bv.window)
	}, bv.window)

	save.SetFilter(storage.NewExtensionFileFilter(export.Extensions))
	save.SetFileName(bv.plural + "_logs.csv")
	save.Show()
}

// ShowError shows validation failures inline under the form and every
// other failure in a dialog
func (bv *BaseView) ShowError(err error) {
	var cerr *controllers.Error
	if errors.As(err, &cerr) {
		if cerr.Kind == controllers.KindValidation {
			bv.form.ShowErrors(cerr.Message, cerr.Fields)
			bv.status.SetStatus(cerr.Message)
			return
		}
		bv.status.SetStatus("Error: " + cerr.Message)
		if cerr.Kind == controllers.KindStorage {
			dialog.ShowError(cerr, bv.window)
			return
		}
		dialog.ShowError(errors.New(cerr.Message), bv.window)
		return
	}

	bv.status.SetStatus("Error: " + err.Error())
	dialog.ShowError(err, bv.window)
}

func (bv *BaseView) showWarning(message string) {
	bv.status.SetStatus(message)
	dialog.ShowInformation("Warning", message, bv.window)
}

func (bv *BaseView) showSuccess(message string) {
	bv.status.SetStatus(message)
	dialog.ShowInformation("Success", message, bv.window)
}

func (bv *BaseView) setListing(listing controllers.Listing) {
	bv.listing = listing
	bv.table.SetData(listing.Table)
	bv.status.SetCount(listing.Table.Len())
}

// selectRow records the id behind row and switches to edit mode
func (bv *BaseView) selectRow(row int) (int64, bool) {
	if row < 0 || row >= len(bv.listing.IDs) {
		return 0, false
	}
	bv.selected = bv.listing.IDs[row]
	bv.hasSelection = true
	bv.actions.SetEditMode(true)
	return bv.selected, true
}

func (bv *BaseView) clearSelection() {
	bv.selected = 0
	bv.hasSelection = false
	bv.form.Reset()
	bv.table.UnselectAll()
	bv.actions.SetEditMode(false)
}

// Selected returns the id of the record loaded in the form
func (bv *BaseView) Selected() (int64, bool) {
	return bv.selected, bv.hasSelection
}

// Table returns the rows currently displayed
func (bv *BaseView) Table() export.Table {
	return bv.table.Data()
}

// Form returns the input form
func (bv *BaseView) Form() *components.Form {
	return bv.form
}

// Actions returns the action bar
func (bv *BaseView) Actions() *components.ActionBar {
	return bv.actions
}

// Status returns the status bar
func (bv *BaseView) Status() *components.StatusBar {
	return bv.status
}

// SelectRow selects a listed row as if clicked
func (bv *BaseView) SelectRow(row int) {
	bv.table.Select(row)
}

// GetContainer returns the view container
func (bv *BaseView) GetContainer() *fyne.Container {
	return bv.container
}

func themeButtonLabel(next string) string {
	return titleCase(next) + " Mode"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
