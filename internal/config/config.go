package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/crumbtrail/internal/errors"
	"github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
	"github.com/vango-dev/crumbtrail/pkg/server"
)

const (
	// DefaultAddress is the default listen address.
	DefaultAddress = "localhost:3000"

	// DefaultMetricsPath is where metrics are served when enabled.
	DefaultMetricsPath = "/metrics"

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log output format.
	DefaultLogFormat = "text"
)

// FileNames are the configuration files Load looks for, in order.
var FileNames = []string{"crumbs.json", "crumbs.yaml", "crumbs.yml"}

// Config represents a crumbs.json or crumbs.yaml file.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Session contains live session settings.
	Session SessionConfig `json:"session" yaml:"session"`

	// Breadcrumb contains the settings of the breadcrumb widget.
	Breadcrumb BreadcrumbConfig `json:"breadcrumb" yaml:"breadcrumb"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Log contains logging settings.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the address to listen on (e.g., "localhost:3000").
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// Title is the document title of rendered pages.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// DisableLive serves plain pages without live sessions.
	DisableLive bool `json:"disableLive,omitempty" yaml:"disableLive,omitempty"`

	// MaxSessions caps concurrent live sessions. Zero means unlimited.
	MaxSessions int `json:"maxSessions,omitempty" yaml:"maxSessions,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "30s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// SessionConfig contains live session settings. Durations are Go duration
// strings.
type SessionConfig struct {
	ReadTimeout       string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout      string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	HeartbeatInterval string `json:"heartbeatInterval,omitempty" yaml:"heartbeatInterval,omitempty"`
	MaxMessageSize    int64  `json:"maxMessageSize,omitempty" yaml:"maxMessageSize,omitempty"`

	// MaxPasses bounds the render loop of every tree.
	MaxPasses int `json:"maxPasses,omitempty" yaml:"maxPasses,omitempty"`
}

// BreadcrumbConfig contains the settings of the breadcrumb widget.
type BreadcrumbConfig struct {
	// HomeLabel names the home entry.
	HomeLabel string `json:"homeLabel,omitempty" yaml:"homeLabel,omitempty"`

	// PersistOverrides keeps overrides registered after their item unmounts.
	PersistOverrides bool `json:"persistOverrides,omitempty" yaml:"persistOverrides,omitempty"`

	// Class is the class of the trail container.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`

	// Separator is placed between entries when set.
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the first of FileNames found in dir. When none exists it
// returns the defaults and a Config whose Path is empty.
func Load(dir string) (*Config, error) {
	if path, ok := Find(dir); ok {
		return LoadFile(path)
	}
	return New(), nil
}

// Find returns the path of the first of FileNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// LoadFile reads configuration from path. The format follows the file
// extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E302").WithDetail(path).Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E301").
			WithDetailf("failed to parse %s: %v", filepath.Base(path), err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path in the format of its extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E301").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E302").WithDetail(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "30s"
	}

	if c.Session.ReadTimeout == "" {
		c.Session.ReadTimeout = "60s"
	}
	if c.Session.WriteTimeout == "" {
		c.Session.WriteTimeout = "10s"
	}
	if c.Session.HeartbeatInterval == "" {
		c.Session.HeartbeatInterval = "30s"
	}
	if c.Session.MaxMessageSize == 0 {
		c.Session.MaxMessageSize = 64 * 1024
	}
	if c.Session.MaxPasses == 0 {
		c.Session.MaxPasses = server.DefaultMaxPasses
	}

	if c.Breadcrumb.HomeLabel == "" {
		c.Breadcrumb.HomeLabel = breadcrumb.DefaultHomeLabel
	}
	if c.Breadcrumb.Class == "" {
		c.Breadcrumb.Class = breadcrumb.DefaultClass
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "crumbs"
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks the configuration and returns an E301 error describing
// the first invalid field.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("E301").WithDetailf(format, args...)
	}

	for _, d := range []struct{ field, value string }{
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"session.readTimeout", c.Session.ReadTimeout},
		{"session.writeTimeout", c.Session.WriteTimeout},
		{"session.heartbeatInterval", c.Session.HeartbeatInterval},
	} {
		if v, err := time.ParseDuration(d.value); err != nil || v <= 0 {
			return invalid("%s must be a positive duration, got %q", d.field, d.value)
		}
	}

	if c.Server.MaxSessions < 0 {
		return invalid("server.maxSessions must not be negative")
	}
	if c.Session.MaxMessageSize < 0 {
		return invalid("session.maxMessageSize must not be negative")
	}
	if c.Session.MaxPasses < 1 {
		return invalid("session.maxPasses must be at least 1")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// ServerConfig converts the file settings to a server configuration. The
// caller adds the observer and logger.
func (c *Config) ServerConfig() *server.ServerConfig {
	sc := server.DefaultServerConfig()
	sc.Address = c.Server.Address
	if c.Server.Title != "" {
		sc.Title = c.Server.Title
	}
	sc.DisableLive = c.Server.DisableLive
	sc.MaxSessions = c.Server.MaxSessions
	sc.ShutdownTimeout = mustDuration(c.Server.ShutdownTimeout, sc.ShutdownTimeout)

	sess := server.DefaultSessionConfig()
	sess.ReadTimeout = mustDuration(c.Session.ReadTimeout, sess.ReadTimeout)
	sess.WriteTimeout = mustDuration(c.Session.WriteTimeout, sess.WriteTimeout)
	sess.HeartbeatInterval = mustDuration(c.Session.HeartbeatInterval, sess.HeartbeatInterval)
	if c.Session.MaxMessageSize > 0 {
		sess.MaxMessageSize = c.Session.MaxMessageSize
	}
	if c.Session.MaxPasses > 0 {
		sess.MaxPasses = c.Session.MaxPasses
	}
	sc.SessionConfig = sess
	return sc
}

// BreadcrumbConfig returns the provider configuration. The caller adds the
// observer.
func (c *Config) BreadcrumbConfig() breadcrumb.Config {
	return breadcrumb.Config{
		HomeLabel:        c.Breadcrumb.HomeLabel,
		PersistOverrides: c.Breadcrumb.PersistOverrides,
	}
}

// ViewOptions returns the view options of the configured trail.
func (c *Config) ViewOptions() []breadcrumb.ViewOption {
	opts := []breadcrumb.ViewOption{breadcrumb.WithClass(c.Breadcrumb.Class)}
	if c.Breadcrumb.Separator != "" {
		opts = append(opts, breadcrumb.WithSeparator(c.Breadcrumb.Separator))
	}
	return opts
}

// ParseLevel parses a log level name.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown level %q", name)
	}
	return level, nil
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
