package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	projectconfig "github.com/leapstack-labs/posecfg/internal/config"
)

// EnvPrefix is the prefix for settings read from the environment.
const EnvPrefix = "POSECFG_"

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// configKey is used to store the settings in context.
type configKey struct{}

// findSettingsFile returns the settings file to use.
// Priority: explicit path > posecfg.yaml > posecfg.yml, looked up in dir.
func findSettingsFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultSettingsFile, DefaultSettingsAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --file flag
//  2. Nearest directory at or above the working directory holding config.yaml
//  3. Current working directory
func inferProjectRoot(flags *pflag.FlagSet) string {
	if flags != nil && flags.Lookup("file") != nil && flags.Changed("file") {
		if f, _ := flags.GetString("file"); f != "" {
			if abs, err := filepath.Abs(f); err == nil {
				return filepath.Dir(abs)
			}
			return filepath.Dir(f)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := projectconfig.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// LoadConfig loads settings from defaults, the settings file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > settings file > defaults
func LoadConfig(settingsFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	projectRoot := inferProjectRoot(flags)

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"policy":      DefaultPolicy,
		"output":      DefaultOutput,
		"verbose":     false,
		"log_level":   DefaultLogLevel,
		"config_file": projectconfig.ConfigFileName,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Settings file
	used := findSettingsFile(settingsFile, projectRoot)
	if used == "" {
		if cwd, err := os.Getwd(); err == nil && cwd != projectRoot {
			used = findSettingsFile("", cwd)
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", used, err)
		}
	}

	// 3. Environment variables
	// Transform: POSECFG_LOG_LEVEL -> log_level, POSECFG_LINT__DISABLED -> lint.disabled
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "file" {
				return "config_file", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			// Comma-separated env values fill list settings.
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	cfg.ProjectRoot = projectRoot
	cfg.SettingsFile = used

	if _, err := cfg.ParsedPolicy(); err != nil {
		return nil, err
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DocumentPath returns the project document to operate on: arg if given,
// otherwise the configured config_file. Relative config_file values
// resolve against the project root.
func (c *Config) DocumentPath(arg string) string {
	if arg != "" {
		return arg
	}
	path := c.ConfigFile
	if path == "" {
		path = projectconfig.ConfigFileName
	}
	if filepath.IsAbs(path) || c.ProjectRoot == "" {
		return path
	}
	// A flag value is relative to the working directory, not the root.
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(c.ProjectRoot, path)
}

// NewLogger builds the CLI logger: text on w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a context carrying the settings.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the settings from the command context, falling
// back to defaults.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}
