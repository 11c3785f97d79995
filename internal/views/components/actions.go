package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ActionBar holds the record buttons, the search box and the export and
// theme buttons
type ActionBar struct {
	container    *fyne.Container
	addButton    *widget.Button
	updateButton *widget.Button
	deleteButton *widget.Button
	clearButton  *widget.Button
	searchEntry  *widget.Entry
	searchButton *widget.Button
	exportButton *widget.Button
	themeButton  *widget.Button

	// Event handlers
	addHandler    func()
	updateHandler func()
	deleteHandler func()
	clearHandler  func()
	searchHandler func(query string)
	exportHandler func()
	themeHandler  func()
}

// NewActionBar creates an action bar in add mode
func NewActionBar() *ActionBar {
	ab := &ActionBar{}
	ab.createComponents()
	ab.buildLayout()
	ab.setupEventHandlers()
	ab.SetEditMode(false)
	return ab
}

func (ab *ActionBar) createComponents() {
	ab.addButton = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), nil)
	ab.addButton.Importance = widget.HighImportance

	ab.updateButton = widget.NewButtonWithIcon("Update", theme.DocumentSaveIcon(), nil)
	ab.deleteButton = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), nil)
	ab.deleteButton.Importance = widget.DangerImportance
	ab.clearButton = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), nil)

	ab.searchEntry = widget.NewEntry()
	ab.searchEntry.SetPlaceHolder("Search...")
	ab.searchButton = widget.NewButtonWithIcon("Search", theme.SearchIcon(), nil)

	ab.exportButton = widget.NewButtonWithIcon("Export Logs", theme.DownloadIcon(), nil)
	ab.themeButton = widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), nil)
}

func (ab *ActionBar) buildLayout() {
	recordSection := container.NewHBox(ab.addButton, ab.updateButton, ab.deleteButton, ab.clearButton)
	utilitySection := container.NewHBox(ab.exportButton, ab.themeButton)
	searchSection := container.NewBorder(nil, nil, nil, ab.searchButton, ab.searchEntry)

	ab.container = container.NewBorder(nil, nil,
		container.NewHBox(recordSection, widget.NewSeparator()),
		container.NewHBox(widget.NewSeparator(), utilitySection),
		searchSection,
	)
}

func (ab *ActionBar) setupEventHandlers() {
	ab.addButton.OnTapped = func() {
		if ab.addHandler != nil {
			ab.addHandler()
		}
	}
	ab.updateButton.OnTapped = func() {
		if ab.updateHandler != nil {
			ab.updateHandler()
		}
	}
	ab.deleteButton.OnTapped = func() {
		if ab.deleteHandler != nil {
			ab.deleteHandler()
		}
	}
	ab.clearButton.OnTapped = func() {
		if ab.clearHandler != nil {
			ab.clearHandler()
		}
	}

	search := func() {
		if ab.searchHandler != nil {
			ab.searchHandler(ab.searchEntry.Text)
		}
	}
	ab.searchButton.OnTapped = search
	ab.searchEntry.OnSubmitted = func(string) { search() }

	ab.exportButton.OnTapped = func() {
		if ab.exportHandler != nil {
			ab.exportHandler()
		}
	}
	ab.themeButton.OnTapped = func() {
		if ab.themeHandler != nil {
			ab.themeHandler()
		}
	}
}

// SetEditMode enables Update and Delete for a selected record and disables
// Add, or the reverse
func (ab *ActionBar) SetEditMode(editing bool) {
	if editing {
		ab.addButton.Disable()
		ab.updateButton.Enable()
		ab.deleteButton.Enable()
		return
	}
	ab.addButton.Enable()
	ab.updateButton.Disable()
	ab.deleteButton.Disable()
}

// SetThemeLabel sets the theme button text
func (ab *ActionBar) SetThemeLabel(label string) {
	ab.themeButton.SetText(label)
}

// SearchText returns the current search query
func (ab *ActionBar) SearchText() string {
	return ab.searchEntry.Text
}

// Event handler setters

func (ab *ActionBar) SetAddHandler(handler func())          { ab.addHandler = handler }
func (ab *ActionBar) SetUpdateHandler(handler func())       { ab.updateHandler = handler }
func (ab *ActionBar) SetDeleteHandler(handler func())       { ab.deleteHandler = handler }
func (ab *ActionBar) SetClearHandler(handler func())        { ab.clearHandler = handler }
func (ab *ActionBar) SetSearchHandler(handler func(string)) { ab.searchHandler = handler }
func (ab *ActionBar) SetExportHandler(handler func())       { ab.exportHandler = handler }
func (ab *ActionBar) SetThemeHandler(handler func())        { ab.themeHandler = handler }

// Buttons exposes the widgets for keyboard shortcuts and tests

func (ab *ActionBar) AddButton() *widget.Button    { return ab.addButton }
func (ab *ActionBar) UpdateButton() *widget.Button { return ab.updateButton }
func (ab *ActionBar) DeleteButton() *widget.Button { return ab.deleteButton }
func (ab *ActionBar) ClearButton() *widget.Button  { return ab.clearButton }
func (ab *ActionBar) SearchEntry() *widget.Entry   { return ab.searchEntry }
func (ab *ActionBar) SearchButton() *widget.Button { return ab.searchButton }
func (ab *ActionBar) ThemeButton() *widget.Button  { return ab.themeButton }

// GetContainer returns the action bar container
func (ab *ActionBar) GetContainer() *fyne.Container {
	return ab.container
}
