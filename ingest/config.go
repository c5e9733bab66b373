// CLAUDE:SUMMARY YAML configuration for the syllabus service: listen address, store path, upload ceiling, engine tuning.
package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/syllabus/docpipe"
	"github.com/hazyhaar/syllabus/syllabus"
)

// Config holds the syllabus service configuration.
type Config struct {
	Listen      string `yaml:"listen"`
	DBPath      string `yaml:"db_path"`
	MaxFileMB   int    `yaml:"max_file_mb"`
	Institution string `yaml:"institution"`
	LogLevel    string `yaml:"log_level"`

	// UploadsPerMinute seeds the rate limit of POST /api/syllabi per client IP.
	// 0 disables it.
	UploadsPerMinute int `yaml:"uploads_per_minute"`

	Engine EngineConfig `yaml:"engine"`
}

// EngineConfig carries the tunable thresholds of the parsing engine.
type EngineConfig struct {
	LineThreshold      float64 `yaml:"line_threshold"`
	MinTextChars       int     `yaml:"min_text_chars"`
	TextbookSegmentCap int     `yaml:"textbook_segment_cap"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:           ":8085",
		DBPath:           "data/syllabus.db",
		MaxFileMB:        10,
		LogLevel:         "info",
		UploadsPerMinute: 30,
		Engine: EngineConfig{
			LineThreshold:      5,
			MinTextChars:       100,
			TextbookSegmentCap: 500,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks required fields and bounds.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be positive")
	}
	if c.UploadsPerMinute < 0 {
		return fmt.Errorf("uploads_per_minute must not be negative")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	if c.Engine.LineThreshold < 0 || c.Engine.MinTextChars < 0 || c.Engine.TextbookSegmentCap < 0 {
		return fmt.Errorf("engine thresholds must not be negative")
	}
	return nil
}

// MaxFileBytes returns the upload ceiling in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }

// SyllabusConfig maps the engine section onto syllabus.Config. Zero values
// fall back to the engine defaults.
func (c *Config) SyllabusConfig() syllabus.Config {
	return syllabus.Config{
		Docpipe: docpipe.Config{
			LineThreshold: c.Engine.LineThreshold,
			MinTextChars:  c.Engine.MinTextChars,
		},
		TextbookSegmentCap: c.Engine.TextbookSegmentCap,
	}
}
