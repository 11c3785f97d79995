package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	fynetheme "fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/internal/logger"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Light, s.Theme)
	assert.Equal(t, []string{Dark, Light}, s.Names())
	assert.Equal(t, "#2f3136", s.Colors[Dark].Background)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme: dark
colors:
  light:
    bg: "#ffffff"
  dark:
    bg: "#000000"
    button_bg: "#123456"
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Dark, s.Theme)
	assert.Equal(t, "#123456", s.Colors[Dark].ButtonBackground)
}

func TestLoadUnknownThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: solarized\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Dark, s.Theme)
}

func TestLoadRejectsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors:\n  light:\n    bg: blue\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "bg")
}

func TestToggleAlternatesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	m, err := NewManager(path, true, logger.Nop())
	require.NoError(t, err)

	var seen []string
	m.OnChange(func(name string) { seen = append(seen, name) })

	assert.Equal(t, Dark, m.Next())
	name, err := m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, name)
	assert.Equal(t, Dark, m.Current())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Dark, reloaded.Theme)

	name, err = m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, name)
	assert.Equal(t, []string{Dark, Light}, seen)
}

func TestToggleWithoutPersistLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	m, err := NewManager(path, false, logger.Nop())
	require.NoError(t, err)

	_, err = m.Toggle()
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#5865F2")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x58, G: 0x65, B: 0xf2, A: 0xff}, c)

	c, err = ParseHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestFyneThemeColors(t *testing.T) {
	test.NewTempApp(t)
	th := New(Dark, DefaultSettings().Colors[Dark])
	assert.Equal(t, Dark, th.Name())

	bg := th.Color(fynetheme.ColorNameBackground, fynetheme.VariantLight)
	assert.Equal(t, color.NRGBA{R: 0x2f, G: 0x31, B: 0x36, A: 0xff}, bg)

	fallback := th.Color(fynetheme.ColorNameError, fynetheme.VariantLight)
	assert.Equal(t, fynetheme.DefaultTheme().Color(fynetheme.ColorNameError, fynetheme.VariantDark), fallback)
	assert.NotNil(t, th.Icon(fynetheme.IconNameDocumentSave))
	assert.Positive(t, th.Size(fynetheme.SizeNamePadding))
}
