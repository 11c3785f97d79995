package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
)

// Fyne maps a Palette onto fyne's color names. Everything else is taken
// from the default theme in the matching variant.
type Fyne struct {
	name    string
	variant fyne.ThemeVariant
	colors  map[fyne.ThemeColorName]color.Color
}

var _ fyne.Theme = (*Fyne)(nil)

// New builds a fyne theme from p. Unparseable colors fall back to the
// default theme.
func New(name string, p Palette) *Fyne {
	variant := fynetheme.VariantLight
	if name == Dark {
		variant = fynetheme.VariantDark
	}

	t := &Fyne{name: name, variant: variant, colors: map[fyne.ThemeColorName]color.Color{}}
	t.set(fynetheme.ColorNameBackground, p.Background)
	t.set(fynetheme.ColorNameMenuBackground, p.FormBackground)
	t.set(fynetheme.ColorNameOverlayBackground, p.FormBackground)
	t.set(fynetheme.ColorNameButton, p.ButtonBackground)
	t.set(fynetheme.ColorNamePrimary, p.ButtonBackground)
	t.set(fynetheme.ColorNameForegroundOnPrimary, p.ButtonForeground)
	t.set(fynetheme.ColorNameInputBackground, p.EntryBackground)
	t.set(fynetheme.ColorNameForeground, p.EntryForeground)
	t.set(fynetheme.ColorNameHeaderBackground, p.TreeBackground)
	return t
}

func (t *Fyne) set(name fyne.ThemeColorName, hex string) {
	if c, err := ParseHex(hex); err == nil {
		t.colors[name] = c
	}
}

// Name returns the palette name
func (t *Fyne) Name() string {
	return t.name
}

func (t *Fyne) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if c, ok := t.colors[name]; ok {
		return c
	}
	return fynetheme.DefaultTheme().Color(name, t.variant)
}

func (t *Fyne) Font(style fyne.TextStyle) fyne.Resource {
	return fynetheme.DefaultTheme().Font(style)
}

func (t *Fyne) Icon(name fyne.ThemeIconName) fyne.Resource {
	return fynetheme.DefaultTheme().Icon(name)
}

func (t *Fyne) Size(name fyne.ThemeSizeName) float32 {
	return fynetheme.DefaultTheme().Size(name)
}

// ParseHex parses "#rgb" or "#rrggbb"
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func (p Palette) validate() error {
	for key, value := range map[string]string{
		"bg":        p.Background,
		"form_bg":   p.FormBackground,
		"button_bg": p.ButtonBackground,
		"button_fg": p.ButtonForeground,
		"entry_bg":  p.EntryBackground,
		"entry_fg":  p.EntryForeground,
		"tree_bg":   p.TreeBackground,
		"tree_fg":   p.TreeForeground,
	} {
		if value == "" {
			continue
		}
		if _, err := ParseHex(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
