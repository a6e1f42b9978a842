// Package config carries the immutable run configuration for notecraft.
// Components never read ambient state; the CLI and server construct one
// Config here and thread it through explicitly.
package config

import (
	"time"

	"github.com/notecraft/notecraft/engine/rule"
)

// Config is the complete configuration, loaded from defaults then
// NOTECRAFT_* environment variables, validated before use.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Server ServerConfig `koanf:"server"`
	Source SourceConfig `koanf:"source"`
	Batch  BatchConfig  `koanf:"batch"`
	Note   NoteConfig   `koanf:"note"`
}

// LogConfig controls the process-wide logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// ServerConfig contains the HTTP preview server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"    validate:"required"`
	Port    int           `koanf:"port"    validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// SourceConfig describes the shape of the tabular sources.
type SourceConfig struct {
	// HeaderRow is the zero-based index of the header row.
	HeaderRow int `koanf:"headerrow" validate:"min=0"`
	// IDColumn is the zero-based RID column, first column by convention.
	IDColumn int `koanf:"idcolumn" validate:"min=0"`
	// ParentColumn is the zero-based parent-account column in the primary
	// source, used for the derived group count.
	ParentColumn int `koanf:"parentcolumn" validate:"min=0"`
}

// BatchConfig tunes orchestrator pacing and write retries.
type BatchConfig struct {
	GroupPause    time.Duration `koanf:"grouppause"`
	RetryAttempts uint64        `koanf:"retryattempts" validate:"max=10"`
	RetryBase     time.Duration `koanf:"retrybase"`
}

// NoteConfig tunes note rendering.
type NoteConfig struct {
	// Timezone anchors date formatting, e.g. "America/New_York".
	Timezone  string `koanf:"timezone" validate:"required"`
	Separator string `koanf:"separator"`
}

// Default returns the built-in configuration before env overrides.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Host:    "127.0.0.1",
			Port:    8123,
			Timeout: 15 * time.Second,
		},
		Source: SourceConfig{
			HeaderRow:    0,
			IDColumn:     0,
			ParentColumn: 1,
		},
		Batch: BatchConfig{
			GroupPause:    0,
			RetryAttempts: 2,
			RetryBase:     200 * time.Millisecond,
		},
		Note: NoteConfig{
			Timezone:  "UTC",
			Separator: rule.DefaultSeparator,
		},
	}
}

// Location resolves the configured note timezone. Validation guarantees it
// loads; a bad zone after that falls back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Note.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
