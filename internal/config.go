package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Store backends.
const (
	StoreBackendFile   = "file"
	StoreBackendSQLite = "sqlite"
)

// Store scopes.
const (
	StoreScopeGlobal  = "global"
	StoreScopeProject = "project"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Store StoreConfig       `yaml:"store"`
	Auth  AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig controls where and how bookmark state is persisted.
//
// Backend selects the persistence provider:
//   - "file" (default): one JSON snapshot file, written atomically.
//   - "sqlite": a SQLite database, for hosts sharing state across sessions.
//
// Scope selects where the default store path lives when Path is empty:
//   - "global" (default): under the user's config directory.
//   - "project": under .raido/ in the working directory.
type StoreConfig struct {
	Backend              string `yaml:"backend"`
	Scope                string `yaml:"scope"`
	Path                 string `yaml:"path"`
	CaseInsensitivePaths bool   `yaml:"case_insensitive_paths"`
	SaveDelayMS          int    `yaml:"save_delay_ms"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = StoreBackendFile
	}
	if c.Scope == "" {
		c.Scope = StoreScopeGlobal
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(StoreBackendFile, StoreBackendSQLite)),
		validation.Field(&c.Scope, validation.Required, validation.In(StoreScopeGlobal, StoreScopeProject)),
		validation.Field(&c.SaveDelayMS, validation.Min(0)),
	)
}

// SaveDelay returns the debounce delay for persistence writes.
func (c *StoreConfig) SaveDelay() time.Duration {
	return time.Duration(c.SaveDelayMS) * time.Millisecond
}

// ResolvePath returns the store location, deriving a default from the scope
// when Path is not set explicitly.
func (c *StoreConfig) ResolvePath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	name := "bookmarks.json"
	if c.Backend == StoreBackendSQLite {
		name = "bookmarks.db"
	}
	if c.Scope == StoreScopeProject {
		return filepath.Join(".raido", name), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "raido", name), nil
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Backend:     StoreBackendFile,
			Scope:       StoreScopeGlobal,
			SaveDelayMS: 250,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
