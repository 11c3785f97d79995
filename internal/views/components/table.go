package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"student-records/internal/export"
)

const (
	minColumnWidth = 60
	maxColumnWidth = 320
)

// RecordTable shows an export.Table with a sticky header row
type RecordTable struct {
	table *widget.Table
	data  export.Table

	selectHandler func(row int)
}

// NewRecordTable creates an empty table
func NewRecordTable() *RecordTable {
	rt := &RecordTable{}
	rt.createComponents()
	return rt
}

func (rt *RecordTable) createComponents() {
	rt.table = widget.NewTable(
		func() (int, int) {
			return len(rt.data.Rows), len(rt.data.Columns)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row < len(rt.data.Rows) && id.Col < len(rt.data.Rows[id.Row]) {
				label.SetText(rt.data.Rows[id.Row][id.Col])
				return
			}
			label.SetText("")
		},
	)

	rt.table.ShowHeaderRow = true
	rt.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}
	rt.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		label := o.(*widget.Label)
		if id.Col >= 0 && id.Col < len(rt.data.Columns) {
			label.SetText(rt.data.Columns[id.Col])
		}
	}

	rt.table.OnSelected = func(id widget.TableCellID) {
		if rt.selectHandler != nil && id.Row >= 0 && id.Row < len(rt.data.Rows) {
			rt.selectHandler(id.Row)
		}
	}
}

// SetData replaces the displayed rows and resizes columns to fit
func (rt *RecordTable) SetData(data export.Table) {
	rt.data = data
	rt.table.UnselectAll()
	rt.resizeColumns()
	rt.table.Refresh()
}

// Data returns the displayed table in display order
func (rt *RecordTable) Data() export.Table {
	return rt.data
}

// Select highlights row and fires the select handler
func (rt *RecordTable) Select(row int) {
	rt.table.Select(widget.TableCellID{Row: row, Col: 0})
}

// UnselectAll clears the selection
func (rt *RecordTable) UnselectAll() {
	rt.table.UnselectAll()
}

// SetSelectHandler sets the handler called with the selected row index
func (rt *RecordTable) SetSelectHandler(handler func(row int)) {
	rt.selectHandler = handler
}

func (rt *RecordTable) resizeColumns() {
	textSize := theme.Size(theme.SizeNameText)
	padding := theme.Padding() * 4

	for col, name := range rt.data.Columns {
		width := fyne.MeasureText(name, textSize, fyne.TextStyle{Bold: true}).Width
		for _, row := range rt.data.Rows {
			if col < len(row) {
				if w := fyne.MeasureText(row[col], textSize, fyne.TextStyle{}).Width; w > width {
					width = w
				}
			}
		}
		width += padding
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		rt.table.SetColumnWidth(col, width)
	}
}

// GetWidget returns the underlying table widget
func (rt *RecordTable) GetWidget() *widget.Table {
	return rt.table
}
