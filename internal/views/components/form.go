package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Form is a titled two-column input form with an error label under every
// field and a summary message at the bottom
type Form struct {
	container *fyne.Container
	grid      *fyne.Container
	title     *widget.Label
	message   *widget.Label

	order   []string
	entries map[string]*widget.Entry
	selects map[string]*widget.Select
	errors  map[string]*widget.Label
}

// NewForm creates an empty form
func NewForm(title string) *Form {
	f := &Form{
		entries: make(map[string]*widget.Entry),
		selects: make(map[string]*widget.Select),
		errors:  make(map[string]*widget.Label),
	}
	f.createComponents(title)
	f.buildLayout()
	return f
}

func (f *Form) createComponents(title string) {
	f.title = widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	f.message = newErrorLabel()
	f.grid = container.New(layout.NewFormLayout())
}

func (f *Form) buildLayout() {
	f.container = container.NewVBox(f.title, f.grid, f.message)
}

func newErrorLabel() *widget.Label {
	label := widget.NewLabel("")
	label.Importance = widget.DangerImportance
	label.Wrapping = fyne.TextWrapWord
	label.Hide()
	return label
}

func (f *Form) addRow(key, label string, input fyne.CanvasObject) {
	errLabel := newErrorLabel()
	f.errors[key] = errLabel
	f.order = append(f.order, key)
	f.grid.Add(widget.NewLabel(label))
	f.grid.Add(container.NewVBox(input, errLabel))
}

// AddEntry appends a text field
func (f *Form) AddEntry(key, label, placeholder string) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(placeholder)
	f.entries[key] = entry
	f.addRow(key, label, entry)
	return entry
}

// AddSelect appends a drop-down field
func (f *Form) AddSelect(key, label string, options []string) *widget.Select {
	sel := widget.NewSelect(options, nil)
	f.selects[key] = sel
	f.addRow(key, label, sel)
	return sel
}

// Entry returns the text field for key, or nil
func (f *Form) Entry(key string) *widget.Entry {
	return f.entries[key]
}

// Select returns the drop-down for key, or nil
func (f *Form) Select(key string) *widget.Select {
	return f.selects[key]
}

// Value returns the current text or selection of key
func (f *Form) Value(key string) string {
	if e, ok := f.entries[key]; ok {
		return e.Text
	}
	if s, ok := f.selects[key]; ok {
		return s.Selected
	}
	return ""
}

// SetValue sets the text or selection of key
func (f *Form) SetValue(key, value string) {
	if e, ok := f.entries[key]; ok {
		e.SetText(value)
		return
	}
	if s, ok := f.selects[key]; ok {
		s.SetSelected(value)
	}
}

// ShowErrors displays message under the form and each field message under
// its field. Unknown keys are ignored.
func (f *Form) ShowErrors(message string, fields map[string]string) {
	f.ClearErrors()
	for key, text := range fields {
		if label, ok := f.errors[key]; ok {
			label.SetText(text)
			label.Show()
		}
	}
	if message != "" {
		f.message.SetText(message)
		f.message.Show()
	}
}

// Message returns the summary error currently shown
func (f *Form) Message() string {
	if !f.message.Visible() {
		return ""
	}
	return f.message.Text
}

// FieldError returns the error currently shown under key
func (f *Form) FieldError(key string) string {
	label, ok := f.errors[key]
	if !ok || !label.Visible() {
		return ""
	}
	return label.Text
}

// ClearErrors hides every error label
func (f *Form) ClearErrors() {
	for _, label := range f.errors {
		label.SetText("")
		label.Hide()
	}
	f.message.SetText("")
	f.message.Hide()
}

// Reset empties every field and error. Selects go back to their first option.
func (f *Form) Reset() {
	for _, key := range f.order {
		if e, ok := f.entries[key]; ok {
			e.SetText("")
			continue
		}
		if s, ok := f.selects[key]; ok {
			if len(s.Options) > 0 {
				s.SetSelected(s.Options[0])
			} else {
				s.ClearSelected()
			}
		}
	}
	f.ClearErrors()
}

// GetContainer returns the form container
func (f *Form) GetContainer() *fyne.Container {
	return f.container
}
