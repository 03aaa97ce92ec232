package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fortunesite/internal/models"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvServiceDomain, EnvAPIKey, EnvUseRemote, EnvLogLevel, EnvServerAddr} {
		t.Setenv(key, "")
	}
}

const validConfigYAML = `
cms:
  use_remote: true
  collections:
    posts: [fortune, notice]
    news: [notice]
remote:
  service_domain: "fortune-site"
  api_key: "secret"
  retry:
    max_attempts: 2
    initial_delay_ms: 100
    max_delay_ms: 1000
    timeout_sec: 5
  limits:
    fortune: 20
    notice: 5
    blog: 30
local:
  content_dir: "./content"
server:
  addr: ":9090"
logging:
  level: "debug"
  format: "json"
`

func TestLoadConfig_Valid(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(createTempConfigFile(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.CMS.UseRemote {
		t.Error("Expected remote mode enabled")
	}

	if cfg.Remote.ServiceDomain != "fortune-site" {
		t.Errorf("ServiceDomain = %q, want fortune-site", cfg.Remote.ServiceDomain)
	}

	if cfg.Remote.Limits.Notice != 5 {
		t.Errorf("Notice limit = %d, want 5", cfg.Remote.Limits.Notice)
	}

	news := cfg.CMS.Collections["news"]
	if len(news) != 1 || news[0] != models.ContentNotice {
		t.Errorf("news collection = %v, want [notice]", news)
	}

	// Default routes survive alongside file-defined ones.
	if len(cfg.CMS.Collections["blog"]) != 1 {
		t.Errorf("expected default blog collection, got %v", cfg.CMS.Collections["blog"])
	}

	if cfg.Local.IndexPrefix != "-" {
		t.Errorf("IndexPrefix = %q, want default '-'", cfg.Local.IndexPrefix)
	}

	if cfg.Remote.Retry.GetTimeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Remote.Retry.GetTimeout())
	}
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.CMS.UseRemote {
		t.Error("default config should be local mode")
	}

	if cfg.Remote.Limits.Fortune != 50 || cfg.Remote.Limits.Notice != 10 || cfg.Remote.Limits.Blog != 50 {
		t.Errorf("unexpected default limits: %+v", cfg.Remote.Limits)
	}

	posts := cfg.CMS.Collections["posts"]
	if len(posts) != 2 || posts[0] != models.ContentFortune || posts[1] != models.ContentNotice {
		t.Errorf("posts collection = %v", posts)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(createTempConfigFile(t, "cms: [unclosed"))
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvUseRemote, "true")
	t.Setenv(EnvServiceDomain, "env-domain")
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvLogLevel, "WARN")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.CMS.UseRemote {
		t.Error("USE_MICROCMS=true should enable remote mode")
	}

	if cfg.Remote.ServiceDomain != "env-domain" || cfg.Remote.APIKey != "env-key" {
		t.Errorf("env credentials not applied: %+v", cfg.Remote)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		mutate func(*Config)
		want   error
		name   string
	}{
		{
			name:   "remote without domain",
			mutate: func(c *Config) { c.CMS.UseRemote = true; c.Remote.APIKey = "k" },
			want:   ErrMissingServiceDomain,
		},
		{
			name:   "remote without key",
			mutate: func(c *Config) { c.CMS.UseRemote = true; c.Remote.ServiceDomain = "d" },
			want:   ErrMissingAPIKey,
		},
		{
			name:   "zero attempts",
			mutate: func(c *Config) { c.Remote.Retry.MaxAttempts = 0 },
			want:   ErrInvalidMaxAttempts,
		},
		{
			name:   "negative delay",
			mutate: func(c *Config) { c.Remote.Retry.InitialDelayMs = -1 },
			want:   ErrInvalidInitialDelay,
		},
		{
			name:   "max below initial",
			mutate: func(c *Config) { c.Remote.Retry.MaxDelayMs = 10 },
			want:   ErrInvalidMaxDelay,
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.Remote.Retry.TimeoutSec = 0 },
			want:   ErrInvalidTimeout,
		},
		{
			name:   "limit too large",
			mutate: func(c *Config) { c.Remote.Limits.Blog = 101 },
			want:   ErrInvalidLimit,
		},
		{
			name:   "unknown content type",
			mutate: func(c *Config) { c.CMS.Collections["posts"] = []models.ContentType{"podcast"} },
			want:   ErrUnknownContentType,
		},
		{
			name:   "missing content dir",
			mutate: func(c *Config) { c.Local.ContentDir = "" },
			want:   ErrMissingContentDir,
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "trace" },
			want:   ErrInvalidLogLevel,
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			want:   ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate_ModeFileWithoutCredentials(t *testing.T) {
	cfg := Default()
	cfg.CMS.ModeFile = "cms.json"

	if err := cfg.Validate(); err != nil {
		t.Errorf("mode file without credentials should validate, got %v", err)
	}

	cfg.CMS.UseRemote = true

	if err := cfg.Validate(); !errors.Is(err, ErrMissingServiceDomain) {
		t.Errorf("remote fallback without credentials: got %v, want %v", err, ErrMissingServiceDomain)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.Server.Addr = ":7070"

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", loaded.Server.Addr)
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "FORTUNESITE_DOTENV_PROBE"

	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")

	if err := os.WriteFile(envFile, []byte(key+"=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded := LoadDotEnv(envFile, filepath.Join(dir, "missing.env"))
	if len(loaded) != 1 || loaded[0] != envFile {
		t.Fatalf("loaded = %v, want [%s]", loaded, envFile)
	}

	if got := os.Getenv(key); got != "loaded" {
		t.Errorf("%s = %q, want loaded", key, got)
	}
}

func TestModeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cms.json")

	write := func(content string) {
		t.Helper()

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	mode := ModeFile{Path: path, Fallback: false}

	write(`{"useMicroCMS": true}`)

	if !mode.UseRemote() {
		t.Error("expected remote mode from file")
	}

	write(`{"useMicroCMS": false}`)

	if mode.UseRemote() {
		t.Error("expected local mode after file edit")
	}

	write(`{"other": 1}`)

	if _, err := mode.Read(); err == nil {
		t.Error("expected error for file without useMicroCMS")
	}

	missing := ModeFile{Path: filepath.Join(dir, "missing.json"), Fallback: true}
	if !missing.UseRemote() {
		t.Error("expected fallback value for missing file")
	}
}

func TestConfig_ModeSource(t *testing.T) {
	cfg := Default()
	cfg.CMS.UseRemote = true

	if _, ok := cfg.ModeSource().(StaticMode); !ok {
		t.Errorf("expected StaticMode, got %T", cfg.ModeSource())
	}

	cfg.CMS.ModeFile = "cms.json"

	if _, ok := cfg.ModeSource().(ModeFile); !ok {
		t.Errorf("expected ModeFile, got %T", cfg.ModeSource())
	}
}
