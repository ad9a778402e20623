package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/todoview/internal/errors"
	"github.com/vango-dev/todoview/pkg/todo"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "todoview.json"

	// DefaultRemote is the reference to-do API.
	DefaultRemote = "https://icp-test.fly.dev"

	// DefaultServePort is the default view host port.
	DefaultServePort = 3000

	// DefaultBackendPort is the default demo backend port.
	DefaultBackendPort = 8081

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultDatabase is the default SQLite file for the demo backend.
	DefaultDatabase = "todoview.db"

	// DefaultTimeout is the default remote call timeout.
	DefaultTimeout = "10s"
)

// List source kinds.
const (
	SourceHTTP = "http"
	SourceS3   = "s3"
)

// Toggle policies as written in the file.
const (
	PolicyReject     = "reject"
	PolicyConcurrent = "concurrent"
)

// Config represents the complete todoview.json configuration.
type Config struct {
	// Remote is the to-do API the view talks to.
	Remote RemoteConfig `json:"remote"`

	// Source selects where the list is read from.
	Source SourceConfig `json:"source"`

	// Toggle configures the item toggle machine.
	Toggle ToggleConfig `json:"toggle"`

	// Serve configures the view host.
	Serve ServeConfig `json:"serve"`

	// Backend configures the demo backend.
	Backend BackendConfig `json:"backend"`

	// Log configures logging.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RemoteConfig configures the remote to-do API.
type RemoteConfig struct {
	// BaseURL is the API root serving /todos and /toggle/{id}.
	BaseURL string `json:"baseURL,omitempty"`

	// ToggleMethod is the HTTP verb for toggles (GET or POST).
	ToggleMethod string `json:"toggleMethod,omitempty"`

	// Timeout bounds each remote call (e.g., "10s").
	Timeout string `json:"timeout,omitempty"`
}

// SourceConfig selects the list source.
type SourceConfig struct {
	// Kind is "http" (the remote API) or "s3".
	Kind string `json:"kind,omitempty"`

	// S3 locates the list object when Kind is "s3".
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates a JSON list in S3 or an S3-compatible store.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty"`
	Key      string `json:"key,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// ToggleConfig configures toggles.
type ToggleConfig struct {
	// Policy is "reject" (refuse gestures while in flight) or "concurrent".
	Policy string `json:"policy,omitempty"`
}

// ListenConfig is a bind address.
type ListenConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// ServeConfig configures the view host.
type ServeConfig struct {
	ListenConfig

	// AutoRefresh re-fetches the list on this interval (e.g., "10s").
	// Empty disables it.
	AutoRefresh string `json:"autoRefresh,omitempty"`
}

// BackendConfig configures the demo backend.
type BackendConfig struct {
	ListenConfig

	// Database is the SQLite file path.
	Database string `json:"database,omitempty"`

	// Seed fills an empty database with the sample list.
	Seed *bool `json:"seed,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for todoview.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is Load, falling back to defaults when the file does not
// exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if stderrors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		e := errors.New("T100").WithFile(path).Wrap(err)
		if os.IsNotExist(err) {
			e.WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without one to use the defaults")
		}
		return nil, e
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("T101").
			WithFile(path).
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		if te, ok := err.(*errors.Error); ok {
			te.WithFile(path)
		}
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("T103").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("T103").WithFile(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Remote
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = DefaultRemote
	}
	if c.Remote.ToggleMethod == "" {
		c.Remote.ToggleMethod = "GET"
	}
	c.Remote.ToggleMethod = strings.ToUpper(c.Remote.ToggleMethod)
	if c.Remote.Timeout == "" {
		c.Remote.Timeout = DefaultTimeout
	}

	// Source
	if c.Source.Kind == "" {
		c.Source.Kind = SourceHTTP
	}
	if c.Source.Kind == SourceS3 && c.Source.S3.Region == "" {
		c.Source.S3.Region = "us-east-1"
	}

	// Toggle
	if c.Toggle.Policy == "" {
		c.Toggle.Policy = PolicyReject
	}

	// Serve
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultServePort
	}

	// Backend
	if c.Backend.Host == "" {
		c.Backend.Host = DefaultHost
	}
	if c.Backend.Port == 0 {
		c.Backend.Port = DefaultBackendPort
	}
	if c.Backend.Database == "" {
		c.Backend.Database = DefaultDatabase
	}
	if c.Backend.Seed == nil {
		seed := true
		c.Backend.Seed = &seed
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) *errors.Error {
		return errors.New("T102").WithDetailf(format, args...)
	}

	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("remote.baseURL %q must be an absolute http(s) URL", c.Remote.BaseURL).
			WithSuggestion(`Set "remote": {"baseURL": "` + DefaultRemote + `"}`)
	}
	switch c.Remote.ToggleMethod {
	case "GET", "POST", "PUT", "PATCH":
	default:
		return invalid("remote.toggleMethod %q is not supported", c.Remote.ToggleMethod).
			WithSuggestion("Use GET for the reference backend or POST for new ones")
	}
	if d, err := time.ParseDuration(c.Remote.Timeout); err != nil || d <= 0 {
		return invalid("remote.timeout %q must be a positive duration", c.Remote.Timeout)
	}

	switch c.Source.Kind {
	case SourceHTTP:
	case SourceS3:
		if c.Source.S3.Bucket == "" || c.Source.S3.Key == "" {
			return invalid("source.s3 needs a bucket and a key")
		}
	default:
		return invalid("source.kind %q must be %q or %q", c.Source.Kind, SourceHTTP, SourceS3)
	}

	switch c.Toggle.Policy {
	case PolicyReject, PolicyConcurrent:
	default:
		return invalid("toggle.policy %q must be %q or %q", c.Toggle.Policy, PolicyReject, PolicyConcurrent)
	}

	if c.Serve.AutoRefresh != "" {
		if d, err := time.ParseDuration(c.Serve.AutoRefresh); err != nil || d < time.Second {
			return invalid("serve.autoRefresh %q must be a duration of at least 1s", c.Serve.AutoRefresh)
		}
	}

	for name, port := range map[string]int{"serve.port": c.Serve.Port, "backend.port": c.Backend.Port} {
		if port < 0 || port > 65535 {
			return invalid("%s must be between 0 and 65535", name)
		}
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		return invalid("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format %q must be text or json", c.Log.Format)
	}

	return nil
}

// ServeAddress returns the view host listen address.
func (c *Config) ServeAddress() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// BackendAddress returns the demo backend listen address.
func (c *Config) BackendAddress() string {
	return c.Backend.Host + ":" + strconv.Itoa(c.Backend.Port)
}

// RemoteTimeout returns the parsed remote timeout.
func (c *Config) RemoteTimeout() time.Duration {
	d, err := time.ParseDuration(c.Remote.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// AutoRefreshInterval returns the auto refresh interval, zero when disabled.
func (c *Config) AutoRefreshInterval() time.Duration {
	if c.Serve.AutoRefresh == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Serve.AutoRefresh)
	return d
}

// TogglePolicy maps the configured policy.
func (c *Config) TogglePolicy() todo.TogglePolicy {
	if c.Toggle.Policy == PolicyConcurrent {
		return todo.AllowConcurrent
	}
	return todo.RejectWhileUpdating
}

// SeedBackend reports whether the demo backend seeds an empty database.
func (c *Config) SeedBackend() bool {
	return c.Backend.Seed == nil || *c.Backend.Seed
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
