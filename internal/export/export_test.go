package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Title:   "Courses",
		Columns: []string{"ID", "Course Code", "Course Name", "Lecturer", "Credits"},
		Rows: [][]string{
			{"1", "MATH101", "Calculus I", "Dr. Brown", "4"},
			{"2", "PHY101", "Physics, Part I", "Dr. Wilson", "3"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, sampleTable().Columns, records[0])
	assert.Equal(t, "Physics, Part I", records[2][2])
}

func TestWriteCSVEmptyTableHasHeader(t *testing.T) {
	var buf bytes.Buffer
	table := Table{Columns: []string{"ID", "Name"}}
	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "ID,Name\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Courses")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, sampleTable().Columns, rows[0])
	assert.Equal(t, "MATH101", rows[1][1])
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "Course Code")
	assert.Contains(t, out, "Calculus I")
	assert.Contains(t, out, "Dr. Wilson")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"logs.csv", FormatCSV, false},
		{"logs", FormatCSV, false},
		{"LOGS.XLSX", FormatXLSX, false},
		{"report.txt", FormatText, false},
		{"report.pdf", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.err {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.csv")
	require.NoError(t, ToFile(path, sampleTable()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, sampleTable().Len()+1)
	assert.Equal(t, "ID,Course Code,Course Name,Lecturer,Credits", lines[0])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Equal(t, "a_b", sheetName("a/b"))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), 31)
}
