package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModeSource reports whether remote content is enabled. Implementations are
// read once per aggregation call.
type ModeSource interface {
	UseRemote() bool
}

// StaticMode is a fixed mode flag.
type StaticMode bool

// UseRemote implements ModeSource.
func (m StaticMode) UseRemote() bool {
	return bool(m)
}

// ModeFile reads the site's CMS switch file, e.g. {"useMicroCMS": true},
// on every call so edits take effect without a restart.
type ModeFile struct {
	Path string
	// Fallback is reported when the file cannot be read or parsed.
	Fallback bool
}

type modeDocument struct {
	UseMicroCMS *bool `yaml:"useMicroCMS"`
}

// UseRemote implements ModeSource.
func (m ModeFile) UseRemote() bool {
	v, err := m.Read()
	if err != nil {
		return m.Fallback
	}

	return v
}

// Read parses the file. JSON is valid YAML, so both spellings are accepted.
func (m ModeFile) Read() (bool, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read mode file: %w", err)
	}

	var doc modeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("failed to parse mode file: %w", err)
	}

	if doc.UseMicroCMS == nil {
		return false, fmt.Errorf("mode file %s has no useMicroCMS key", m.Path)
	}

	return *doc.UseMicroCMS, nil
}

// ModeSource builds the mode source the configuration describes.
func (c *Config) ModeSource() ModeSource {
	if c.CMS.ModeFile != "" {
		return ModeFile{Path: c.CMS.ModeFile, Fallback: c.CMS.UseRemote}
	}

	return StaticMode(c.CMS.UseRemote)
}
