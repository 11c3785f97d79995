package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultPath is used when CONFIG_PATH is not set
const DefaultPath = "config/config.yaml"

// Config is the application configuration, read once at startup
type Config struct {
	Env      string   `yaml:"env" env:"APP_ENV" env-default:"local" validate:"required"`
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	Audit    Audit    `yaml:"audit"`
	UI       UI       `yaml:"ui"`
}

// Database selects the storage backend
type Database struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite3" validate:"oneof=sqlite3 postgres"`
	Path   string `yaml:"path" env:"DB_PATH" env-default:"data/database.db" validate:"required_if=Driver sqlite3"`
	DSN    string `yaml:"dsn" env:"DB_DSN" validate:"required_if=Driver postgres"`
}

// Log controls the application logger
type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console" validate:"oneof=console json"`
	File   string `yaml:"file" env:"LOG_FILE"`
}

// Audit controls the mutation audit trail
type Audit struct {
	Enabled bool   `yaml:"enabled" env:"AUDIT_ENABLED"`
	Path    string `yaml:"path" env:"AUDIT_PATH" env-default:"logs/audit.log" validate:"required_if=Enabled true"`
}

// UI holds window and theme settings
type UI struct {
	Title        string `yaml:"title" env:"UI_TITLE" env-default:"Student Records"`
	Width        int    `yaml:"width" env:"UI_WIDTH" env-default:"1100" validate:"gte=640"`
	Height       int    `yaml:"height" env:"UI_HEIGHT" env-default:"700" validate:"gte=480"`
	ThemeFile    string `yaml:"theme_file" env:"THEME_FILE" env-default:"config/theme.yaml" validate:"required"`
	PersistTheme bool   `yaml:"persist_theme" env:"PERSIST_THEME"`
}

// Load reads the configuration. The file path comes from CONFIG_PATH, falling
// back to DefaultPath; a missing file leaves defaults and environment values.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path plus the environment
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: stat %s: %w", path, statErr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaults seeds the boolean switches that default to on; cleanenv cannot
// tell an explicit false from an absent key.
func defaults() Config {
	return Config{
		Audit: Audit{Enabled: true},
		UI:    UI{PersistTheme: true},
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
