// =============================================================================
// CSV Cleaner - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration. The cleaning rules themselves are fixed; the configuration
// only covers the surrounding concerns:
//
// CONFIGURATION SECTIONS:
//   1. logging : level and output format
//   2. server  : web form listener, upload limits, timeouts, CORS
//   3. profile : data profile settings
//
// LAYERING:
//   defaults  <  YAML file (--config)  <  CSVCLEAN_* env vars / flags (cmd)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Profile ProfileConfig `yaml:"profile"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	// Level controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log encoder.
	// Valid values: "console", "json"
	// Default: "console"
	Format string `yaml:"format"`
}

// ServerConfig holds the settings of the web form.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// MaxUploadBytes caps the size of an uploaded file.
	// Default: 32 MiB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// ReadTimeout, WriteTimeout and ShutdownTimeout are passed to http.Server
	// and the graceful shutdown.
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// AllowedOrigins is the CORS allow list. Empty means same-origin only.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// WorkDir is where per-request cleaned files are staged before download.
	// Default: os.TempDir()
	WorkDir string `yaml:"work_dir"`
}

// ProfileConfig holds the data profile settings.
type ProfileConfig struct {
	// SampleRows is the number of rows kept as a sample in the profile.
	// Default: 5
	SampleRows int `yaml:"sample_rows"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultAddr            = ":8080"
	DefaultMaxUploadBytes  = 32 << 20
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultSampleRows      = 5
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: The path to the configuration file. An empty path yields the
//     defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.WorkDir == "" {
		cfg.Server.WorkDir = os.TempDir()
	}
	if cfg.Profile.SampleRows == 0 {
		cfg.Profile.SampleRows = DefaultSampleRows
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format))
	}

	if c.Server.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	if c.Profile.SampleRows < 0 {
		errs = append(errs, fmt.Errorf("profile.sample_rows must not be negative, got %d", c.Profile.SampleRows))
	}

	return errors.Join(errs...)
}
