// Package config provides settings management for the posecfg CLI.
//
// These are settings for the tool itself (policy, output mode, logging,
// health rule tuning), read from posecfg.yaml, POSECFG_* environment
// variables and command-line flags. The DeepLabCut project document is
// handled by internal/config.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

// Config holds all CLI settings.
type Config struct {
	Policy       string     `koanf:"policy"`
	OutputFormat string     `koanf:"output"`
	Verbose      bool       `koanf:"verbose"`
	LogLevel     string     `koanf:"log_level"`
	ConfigFile   string     `koanf:"config_file"` // project document, relative to ProjectRoot
	Lint         LintConfig `koanf:"lint"`

	// ProjectRoot is the directory holding the project document.
	ProjectRoot string `koanf:"-"`
	// SettingsFile is the posecfg.yaml that was read, if any.
	SettingsFile string `koanf:"-"`
}

// LintConfig tunes the health rules.
type LintConfig struct {
	Disabled   []string                  `koanf:"disabled"`
	Severity   map[string]string         `koanf:"severity"`
	Thresholds map[string]map[string]any `koanf:"thresholds"`
}

// Default settings values.
const (
	DefaultPolicy       = string(core.PolicyStrict)
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel     = "warn"
	DefaultSettingsFile = "posecfg.yaml"
	DefaultSettingsAlt  = "posecfg.yml"
)

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Policy:       DefaultPolicy,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
	}
}

// ParsedPolicy returns the configured validation policy.
func (c *Config) ParsedPolicy() (core.Policy, error) {
	return core.ParsePolicy(c.Policy)
}

// SlogLevel returns the log level. Verbose forces debug.
func (c *Config) SlogLevel() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	name := c.LogLevel
	if name == "" {
		name = DefaultLogLevel
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// AnalyzerConfig converts the lint settings into an analyzer configuration.
func (l LintConfig) AnalyzerConfig() (*lint.Config, error) {
	cfg := lint.NewConfig()
	for _, id := range l.Disabled {
		cfg.Disable(strings.ToUpper(id))
	}

	ids := make([]string, 0, len(l.Severity))
	for id := range l.Severity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sev, ok := core.ParseSeverity(l.Severity[id])
		if !ok {
			return nil, fmt.Errorf("lint.severity.%s: unknown severity %q", id, l.Severity[id])
		}
		cfg.SetSeverity(strings.ToUpper(id), sev)
	}

	for id, opts := range l.Thresholds {
		for key, val := range opts {
			cfg.SetOption(strings.ToUpper(id), key, val)
		}
	}
	return cfg, nil
}
