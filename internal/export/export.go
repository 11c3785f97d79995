// Package export serializes the rows currently on screen. CSV is the primary
// "logs" format; XLSX and plain-text tables are picked by file extension.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"
)

// Table is a rendered listing: column names plus rows in display order
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows
func (t Table) Len() int {
	return len(t.Rows)
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

// Extensions lists the accepted export file extensions
var Extensions = []string{".csv", ".xlsx", ".txt"}

// FormatFromPath picks the format from the file extension; no extension
// means CSV.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("export: unsupported file type %q", ext)
	}
}

// Write serializes t in format f
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatText:
		return WriteText(w, t)
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}

// ToFile writes t to path in the format implied by its extension
func ToFile(path string, t Table) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := Write(f, format, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes one header row followed by one row per record
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("export: csv rows: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook named after the table
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: xlsx sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &t.Columns); err != nil {
		return fmt.Errorf("export: xlsx header: %w", err)
	}
	for i := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: xlsx cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &t.Rows[i]); err != nil {
			return fmt.Errorf("export: xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: xlsx write: %w", err)
	}
	return nil
}

// WriteText renders an aligned plain-text table
func WriteText(w io.Writer, t Table) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(t.Rows)
	table.Render()
	return nil
}

func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))

	if name == "" {
		return "Sheet1"
	}
	if len([]rune(name)) > 31 {
		name = string([]rune(name)[:31])
	}
	return name
}
