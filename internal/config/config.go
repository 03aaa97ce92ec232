// Package config provides configuration management for the content services.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fortunesite/internal/models"
)

// Environment variables that override file settings.
const (
	EnvServiceDomain = "MICROCMS_SERVICE_DOMAIN"
	EnvAPIKey        = "MICROCMS_API_KEY"
	EnvUseRemote     = "USE_MICROCMS"
	EnvLogLevel      = "LOG_LEVEL"
	EnvServerAddr    = "SERVER_ADDR"
)

// Configuration validation errors.
var (
	ErrMissingServiceDomain = errors.New("remote.service_domain is required when remote mode is enabled")
	ErrMissingAPIKey        = errors.New("remote.api_key is required when remote mode is enabled")
	ErrInvalidMaxAttempts   = errors.New("remote.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay  = errors.New("remote.retry.initial_delay_ms must be non-negative")
	ErrInvalidMaxDelay      = errors.New("remote.retry.max_delay_ms cannot be less than initial_delay_ms")
	ErrInvalidTimeout       = errors.New("remote.retry.timeout_sec must be at least 1")
	ErrInvalidLimit         = errors.New("remote.limits values must be between 1 and 100")
	ErrMissingContentDir    = errors.New("local.content_dir is required")
	ErrUnknownContentType   = errors.New("cms.collections references an unknown content type")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete service configuration.
type Config struct {
	CMS     CMSConfig     `yaml:"cms"`
	Remote  RemoteConfig  `yaml:"remote"`
	Local   LocalConfig   `yaml:"local"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// CMSConfig selects the content source.
type CMSConfig struct {
	// Collections maps a collection name to the remote content types that
	// serve it, in concatenation order.
	Collections map[string][]models.ContentType `yaml:"collections"`
	// ModeFile, when set, is re-read on every aggregation call and
	// overrides UseRemote.
	ModeFile  string `yaml:"mode_file"`
	UseRemote bool   `yaml:"use_remote"`
}

// RemoteConfig holds the headless CMS connection settings.
type RemoteConfig struct {
	ServiceDomain string       `yaml:"service_domain"`
	APIKey        string       `yaml:"api_key"`
	BaseURL       string       `yaml:"base_url"`
	Retry         RetryPolicy  `yaml:"retry"`
	Limits        LimitsConfig `yaml:"limits"`
}

// RetryPolicy defines transport retry behavior.
type RetryPolicy struct {
	MaxAttempts    int `yaml:"max_attempts"`
	InitialDelayMs int `yaml:"initial_delay_ms"`
	MaxDelayMs     int `yaml:"max_delay_ms"`
	TimeoutSec     int `yaml:"timeout_sec"`
}

// LimitsConfig sets the default page size per content type.
type LimitsConfig struct {
	Fortune int `yaml:"fortune"`
	Notice  int `yaml:"notice"`
	Blog    int `yaml:"blog"`
}

// LocalConfig points at the file-based content store.
type LocalConfig struct {
	ContentDir  string `yaml:"content_dir"`
	IndexPrefix string `yaml:"index_prefix"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		CMS: CMSConfig{
			UseRemote:   false,
			Collections: DefaultCollections(),
		},
		Remote: RemoteConfig{
			Retry: RetryPolicy{
				MaxAttempts:    3,
				InitialDelayMs: 200,
				MaxDelayMs:     5000,
				TimeoutSec:     10,
			},
			Limits: LimitsConfig{Fortune: 50, Notice: 10, Blog: 50},
		},
		Local: LocalConfig{
			ContentDir:  "src/content",
			IndexPrefix: "-",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultCollections routes "posts" to fortune then notice articles and
// "blog" to blog articles.
func DefaultCollections() map[string][]models.ContentType {
	return map[string][]models.ContentType{
		"posts": {models.ContentFortune, models.ContentNotice},
		"blog":  {models.ContentBlog},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults,
// then applies environment overrides. An empty path skips the file.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.ApplyEnv()

	if len(cfg.CMS.Collections) == 0 {
		cfg.CMS.Collections = DefaultCollections()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads .env files from the working directory into the process
// environment. Missing files are skipped; the names loaded are returned.
func LoadDotEnv(files ...string) []string {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}

	loaded := make([]string, 0, len(files))

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			continue
		}

		loaded = append(loaded, file)
	}

	return loaded
}

// ApplyEnv overrides file settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvServiceDomain); v != "" {
		c.Remote.ServiceDomain = v
	}

	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Remote.APIKey = v
	}

	if v := os.Getenv(EnvUseRemote); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.CMS.UseRemote = parsed
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// A mode file without credentials degrades to a local-only build, so
	// credentials are required only when remote mode is the configured value.
	if c.CMS.UseRemote {
		if c.Remote.ServiceDomain == "" && c.Remote.BaseURL == "" {
			return ErrMissingServiceDomain
		}

		if c.Remote.APIKey == "" {
			return ErrMissingAPIKey
		}
	}

	if err := c.Remote.Retry.Validate(); err != nil {
		return err
	}

	for name, limit := range map[string]int{
		"fortune": c.Remote.Limits.Fortune,
		"notice":  c.Remote.Limits.Notice,
		"blog":    c.Remote.Limits.Blog,
	} {
		if limit < 1 || limit > 100 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidLimit, name, limit)
		}
	}

	for name, types := range c.CMS.Collections {
		for _, ct := range types {
			if !ct.Valid() {
				return fmt.Errorf("%w: %s -> %q", ErrUnknownContentType, name, ct)
			}
		}
	}

	if c.Local.ContentDir == "" {
		return ErrMissingContentDir
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "" && c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Validate checks the retry policy bounds.
func (rp *RetryPolicy) Validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.MaxDelayMs < rp.InitialDelayMs {
		return ErrInvalidMaxDelay
	}

	if rp.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	return nil
}

// InitialDelay returns the first backoff delay.
func (rp *RetryPolicy) InitialDelay() time.Duration {
	return time.Duration(rp.InitialDelayMs) * time.Millisecond
}

// MaxDelay returns the backoff cap.
func (rp *RetryPolicy) MaxDelay() time.Duration {
	return time.Duration(rp.MaxDelayMs) * time.Millisecond
}

// GetTimeout returns the per-request timeout.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// ShutdownGrace returns how long the server waits for in-flight requests.
func (s *ServerConfig) ShutdownGrace() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}

	return time.Duration(s.ShutdownTimeout) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Mode: %s, Domain: %s, Collections: %d, ContentDir: %s}",
		models.ModeFor(c.CMS.UseRemote),
		c.Remote.ServiceDomain,
		len(c.CMS.Collections),
		c.Local.ContentDir,
	)
}
