package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteflow/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
	Inbox    InboxConfig       `yaml:"inbox"`
	Reminder ReminderConfig    `yaml:"reminder"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Inbox.Validate(); err != nil {
		return err
	}
	return c.Reminder.Validate()
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

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
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

// InboxConfig controls the Markdown inbox importer.
type InboxConfig struct {
	Enabled        bool           `yaml:"enabled"`
	Path           string         `yaml:"path"`
	DefaultSegment models.Segment `yaml:"default_segment"`
}

// Validate validates the inbox configuration.
func (c *InboxConfig) Validate() error {
	if c.DefaultSegment == "" {
		c.DefaultSegment = models.SegmentToday
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.DefaultSegment, validation.In(models.SegmentKeys()...)),
	)
}

// ReminderConfig controls the daily "due today" reminder.
type ReminderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Time    string `yaml:"time"`
}

// Validate validates the reminder configuration.
func (c *ReminderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Time, validation.When(c.Enabled, validation.Required), validation.Match(clockRe)),
	)
}

// Clock returns the configured hour and minute.
func (c *ReminderConfig) Clock() (hour, minute int) {
	t, err := time.Parse("15:04", c.Time)
	if err != nil {
		return 9, 0
	}
	return t.Hour(), t.Minute()
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
		SQLite: SQLiteConfig{
			Path: "./noteflow.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Inbox: InboxConfig{
			Path:           "./inbox",
			DefaultSegment: models.SegmentToday,
		},
		Reminder: ReminderConfig{
			Time: "09:00",
		},
	}
}
