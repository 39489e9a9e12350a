package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete webindexer server configuration.
//
// This covers the service-level settings only: listen address, document
// root, logging, thumbnails, metrics. Per-directory display and access
// configuration lives in indexer.json documents inside the served tree and
// is resolved per request by pkg/index.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (WEBINDEXER_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains the HTTP transport settings
	Server ServerConfig `mapstructure:"server"`

	// Thumbnails controls thumbnail rendering and its cache store
	Thumbnails ThumbnailsConfig `mapstructure:"thumbnails"`

	// Metrics controls the optional Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains the HTTP transport settings.
type ServerConfig struct {
	// Listen is the address the HTTP server binds to (e.g. ":8080")
	Listen string `mapstructure:"listen" validate:"required"`

	// Root is the document root whose tree is indexed and served
	Root string `mapstructure:"root" validate:"required"`

	// BaseURL is the external base URL used in generated links.
	// Empty means links are derived from the request host.
	BaseURL string `mapstructure:"base_url"`

	// Title is the site name shown in page titles
	Title string `mapstructure:"title"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`

	// RateLimit throttles requests per client address
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	// Enabled turns per-client rate limiting on
	Enabled bool `mapstructure:"enabled"`

	// RequestsPerSecond is the sustained rate allowed per client
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"omitempty,gt=0"`

	// Burst is the number of requests a client may send at once
	Burst uint `mapstructure:"burst" validate:"omitempty,gt=0"`
}

// ThumbnailsConfig controls thumbnail rendering.
//
// The cache section follows the store-selection pattern: Type picks the
// implementation and only the matching type-specific map is decoded.
type ThumbnailsConfig struct {
	// Enabled turns the /.thumb/ namespace on
	Enabled bool `mapstructure:"enabled"`

	// Size is the bounding box edge of rendered thumbnails, in pixels
	Size uint `mapstructure:"size" validate:"omitempty,gt=0,lte=1024"`

	// JPEGQuality is the JPEG encoder quality (1-100)
	JPEGQuality int `mapstructure:"jpeg_quality" validate:"omitempty,gte=1,lte=100"`

	// Cache selects and configures the thumbnail cache store
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig specifies the thumbnail cache store.
type CacheConfig struct {
	// Type specifies which cache implementation to use
	// Valid values: memory, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory badger"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`
}

// MetricsConfig controls the optional Prometheus metrics server.
type MetricsConfig struct {
	// Enabled turns metrics collection and the metrics server on
	Enabled bool `mapstructure:"enabled"`

	// Listen is the address of the metrics HTTP server
	Listen string `mapstructure:"listen"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: path to a config file (empty uses the default location)
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variable and config file handling.
func setupViper(v *viper.Viper, configPath string) {
	// Example: WEBINDEXER_SERVER_LISTEN=:9000
	v.SetEnvPrefix("WEBINDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only consults the environment for keys it knows about, so
	// bind the settable ones explicitly; otherwise an env-only value
	// (e.g. WEBINDEXER_SERVER_ROOT with no config file) is ignored.
	for _, key := range []string{
		"logging.level", "logging.output",
		"server.listen", "server.root", "server.base_url", "server.title", "server.shutdown_timeout",
		"server.rate_limit.enabled", "server.rate_limit.requests_per_second", "server.rate_limit.burst",
		"thumbnails.enabled", "thumbnails.size", "thumbnails.jpeg_quality", "thumbnails.cache.type",
		"metrics.enabled", "metrics.listen",
	} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file
// is fine; the defaults cover everything except the document root.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory, following XDG
// conventions with ~/.config as the fallback.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "webindexer")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "webindexer")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
