package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays the last action result and the number of listed records
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	countLabel  *widget.Label
	noun        string
}

// NewStatusBar creates a status bar counting records called noun
func NewStatusBar(noun string) *StatusBar {
	sb := &StatusBar{noun: noun}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.statusLabel.Truncation = fyne.TextTruncateEllipsis
	sb.countLabel = widget.NewLabel("")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(nil, nil, nil,
		container.NewHBox(widget.NewSeparator(), sb.countLabel),
		container.New(layout.NewStackLayout(), sb.statusLabel),
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetCount shows how many records are listed
func (sb *StatusBar) SetCount(n int) {
	noun := sb.noun
	if n == 1 && len(noun) > 1 {
		noun = noun[:len(noun)-1]
	}
	sb.countLabel.SetText(fmt.Sprintf("%d %s", n, noun))
}

// GetCount returns the record count text
func (sb *StatusBar) GetCount() string {
	return sb.countLabel.Text
}

// Reset restores the initial message
func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText("Ready")
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
