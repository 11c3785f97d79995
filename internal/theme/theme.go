// Package theme loads the named color palettes from the theme file, tracks
// the active one and turns it into a fyne.Theme. Switching themes never
// touches student or course data.
package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"student-records/internal/logger"
)

const (
	Light = "light"
	Dark  = "dark"
)

// Palette is the set of colors applied to the UI, as "#rrggbb" strings
type Palette struct {
	Background       string `yaml:"bg"`
	FormBackground   string `yaml:"form_bg"`
	ButtonBackground string `yaml:"button_bg"`
	ButtonForeground string `yaml:"button_fg"`
	EntryBackground  string `yaml:"entry_bg"`
	EntryForeground  string `yaml:"entry_fg"`
	TreeBackground   string `yaml:"tree_bg"`
	TreeForeground   string `yaml:"tree_fg"`
}

// Settings is the theme file document
type Settings struct {
	Theme  string             `yaml:"theme"`
	Colors map[string]Palette `yaml:"colors"`
}

// DefaultSettings returns the built-in light and dark palettes
func DefaultSettings() Settings {
	return Settings{
		Theme: Light,
		Colors: map[string]Palette{
			Light: {
				Background:       "#f2f3f5",
				FormBackground:   "#ffffff",
				ButtonBackground: "#5865f2",
				ButtonForeground: "#ffffff",
				EntryBackground:  "#ffffff",
				EntryForeground:  "#000000",
				TreeBackground:   "#ffffff",
				TreeForeground:   "#000000",
			},
			Dark: {
				Background:       "#2f3136",
				FormBackground:   "#36393f",
				ButtonBackground: "#7289da",
				ButtonForeground: "#ffffff",
				EntryBackground:  "#40444b",
				EntryForeground:  "#ffffff",
				TreeBackground:   "#36393f",
				TreeForeground:   "#ffffff",
			},
		},
	}
}

// Load reads the theme file. A missing file yields DefaultSettings; a theme
// name without a palette falls back to the first available one.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("theme: read %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("theme: parse %s: %w", path, err)
	}
	if len(s.Colors) == 0 {
		s.Colors = DefaultSettings().Colors
	}
	for name, p := range s.Colors {
		if err := p.validate(); err != nil {
			return Settings{}, fmt.Errorf("theme: palette %q: %w", name, err)
		}
	}
	if _, ok := s.Colors[s.Theme]; !ok {
		s.Theme = s.Names()[0]
	}
	return s, nil
}

// Save writes the settings back to path
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("theme: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("theme: create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("theme: write %s: %w", path, err)
	}
	return nil
}

// Names returns the palette names in sorted order
func (s Settings) Names() []string {
	names := make([]string, 0, len(s.Colors))
	for name := range s.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the palette name following the active one, wrapping around
func (s Settings) Next() string {
	names := s.Names()
	for i, name := range names {
		if name == s.Theme {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// Manager owns the active theme and notifies listeners on change
type Manager struct {
	mu        sync.Mutex
	settings  Settings
	path      string
	persist   bool
	logger    logger.Logger
	listeners []func(name string)
}

// NewManager loads path and returns a manager for it. With persist set,
// every toggle is written back to path.
func NewManager(path string, persist bool, log logger.Logger) (*Manager, error) {
	settings, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{settings: settings, path: path, persist: persist, logger: log}, nil
}

// Current returns the active theme name
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Theme
}

// Next returns the theme a toggle would switch to
func (m *Manager) Next() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Next()
}

// Palette returns the active palette
func (m *Manager) Palette() Palette {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Colors[m.settings.Theme]
}

// Theme returns the active palette as a fyne theme
func (m *Manager) Theme() *Fyne {
	return New(m.Current(), m.Palette())
}

// OnChange registers a listener called with the new theme name
func (m *Manager) OnChange(fn func(name string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Toggle switches to the next palette. A failed save is returned but the
// switch still takes effect.
func (m *Manager) Toggle() (string, error) {
	m.mu.Lock()
	m.settings.Theme = m.settings.Next()
	name := m.settings.Theme
	snapshot := m.settings
	listeners := append([]func(string){}, m.listeners...)
	m.mu.Unlock()

	m.logger.Info("Theme", "theme toggled", map[string]interface{}{"theme": name})

	var err error
	if m.persist {
		if err = Save(m.path, snapshot); err != nil {
			m.logger.Error("Theme", err, map[string]interface{}{"path": m.path})
		}
	}

	for _, fn := range listeners {
		fn(name)
	}
	return name, err
}
