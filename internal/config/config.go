package config

import (
	"time"

	"github.com/lendlens/lendlens/internal/core"
	apperrors "github.com/lendlens/lendlens/internal/errors"
)

// Config represents the complete application configuration.
type Config struct {
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Research ResearchConfig `mapstructure:"research"`
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

// MonitorConfig controls the concurrent monitoring engine.
type MonitorConfig struct {
	// Concurrency bounds simultaneously active subject jobs.
	Concurrency int `mapstructure:"concurrency"`

	// ProbeTimeout caps one source lookup, analysis included.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`

	// Sources selects which probes run per subject.
	Sources []string `mapstructure:"sources"`
}

// SourceKinds resolves the configured source names to kinds, preserving
// configuration order.
func (c MonitorConfig) SourceKinds() []core.SourceKind {
	kinds := make([]core.SourceKind, 0, len(c.Sources))
	for _, source := range c.Sources {
		kinds = append(kinds, core.SourceKind(source))
	}
	return kinds
}

// ResearchConfig controls the sequential deep-research mode.
type ResearchConfig struct {
	// Delay is the pause inserted after every unit, success or failure.
	Delay time.Duration `mapstructure:"delay"`

	// Types selects which research passes run per subject.
	Types []string `mapstructure:"types"`
}

// ResearchKinds resolves the configured research type names to kinds.
func (c ResearchConfig) ResearchKinds() []core.ResearchKind {
	kinds := make([]core.ResearchKind, 0, len(c.Types))
	for _, t := range c.Types {
		kinds = append(kinds, core.ResearchKind(t))
	}
	return kinds
}

// CrawlerConfig points at the content extraction service.
type CrawlerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`

	// LocalExtract strips HTML locally when the service returns raw pages.
	LocalExtract bool `mapstructure:"local_extract"`
}

// AnalyzerConfig points at the OpenAI-compatible analysis service.
type AnalyzerConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Model           string        `mapstructure:"model"`
	APIKey          string        `mapstructure:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxContentChars int           `mapstructure:"max_content_chars"`
}

// StoreConfig contains database configuration for libsql/Turso.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// OutputConfig controls where report files land by default.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// Validate fails fast on input that would make any run meaningless.
func (c *Config) Validate() error {
	if c == nil {
		return apperrors.NewConfigError("config", "configuration is required")
	}
	if c.Monitor.Concurrency < 1 {
		return apperrors.NewConfigError("monitor.concurrency", "must be at least 1, got %d", c.Monitor.Concurrency)
	}
	if c.Monitor.ProbeTimeout <= 0 {
		return apperrors.NewConfigError("monitor.probe_timeout", "must be positive")
	}
	if len(c.Monitor.Sources) == 0 {
		return apperrors.ErrNoSourceKinds
	}
	for _, source := range c.Monitor.Sources {
		if !knownSource(source) {
			return apperrors.NewConfigError("monitor.sources", "unknown source kind %q", source)
		}
	}
	if c.Research.Delay < 0 {
		return apperrors.NewConfigError("research.delay", "must not be negative")
	}
	for _, t := range c.Research.Types {
		if !knownResearch(t) {
			return apperrors.NewConfigError("research.types", "unknown research type %q", t)
		}
	}
	return nil
}

func knownSource(value string) bool {
	for _, kind := range core.DefaultSourceKinds {
		if string(kind) == value {
			return true
		}
	}
	return false
}

func knownResearch(value string) bool {
	for _, kind := range core.KnownResearchKinds {
		if string(kind) == value {
			return true
		}
	}
	return false
}
