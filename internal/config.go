package internal

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store drivers.
const (
	StoreDriverJSON   = "json"
	StoreDriverSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Store StoreConfig       `yaml:"store"`
	CORS  CORSConfig        `yaml:"cors"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Store.Validate()
}

// ApplyEnv applies environment overrides used by the hosting platform. PORT
// takes precedence over the configured HTTP port.
func (c *Config) ApplyEnv() error {
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", raw, err)
		}
		c.App.HTTP.Port = port
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel string     `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// Level maps the configured log level to slog. Unset means info.
func (c *ApplicationConfig) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	// Seed optionally names a JSON document whose projects are imported
	// into an empty sqlite database on first run. The json driver ignores
	// it.
	Seed string `yaml:"seed"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StoreDriverJSON, StoreDriverSQLite)),
		validation.Field(&c.Path, validation.Required),
	)
}

// CORSConfig holds the browser origin allow-list.
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: "info",
			HTTP: HTTPConfig{
				Port: 4000,
			},
		},
		Store: StoreConfig{
			Driver: StoreDriverJSON,
			Path:   "./data/db.json",
		},
		CORS: CORSConfig{
			Origins: []string{
				"http://localhost:5500",
				"https://maurobossio.github.io",
			},
		},
	}
}
