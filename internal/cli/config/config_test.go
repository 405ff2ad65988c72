package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultSettingsFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeSettings(t, "{}\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPolicy, cfg.Policy)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "config.yaml", cfg.ConfigFile)
	assert.False(t, cfg.Verbose)
	assert.NotEmpty(t, cfg.ProjectRoot)

	policy, err := cfg.ParsedPolicy()
	require.NoError(t, err)
	assert.Equal(t, core.PolicyStrict, policy)
}

func TestLoadConfig_SettingsFile(t *testing.T) {
	path := writeSettings(t, `policy: lenient
output: json
log_level: info
lint:
  disabled: [cs04]
  severity:
    CT01: error
  thresholds:
    CT02:
      min_frames: 50
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "lenient", cfg.Policy)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, path, cfg.SettingsFile)
	assert.Equal(t, []string{"cs04"}, cfg.Lint.Disabled)
	assert.Equal(t, "error", cfg.Lint.Severity["CT01"])

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	lc, err := cfg.Lint.AnalyzerConfig()
	require.NoError(t, err)
	assert.True(t, lc.IsDisabled("CS04"))
	assert.Equal(t, core.SeverityError, lc.GetSeverity("CT01", core.SeverityWarning))
	assert.EqualValues(t, 50, lc.Options["CT02"]["min_frames"])
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeSettings(t, "policy: strict\noutput: text\n")

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("POSECFG_OUTPUT", "markdown")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})

	t.Run("flag overrides env and file", func(t *testing.T) {
		t.Setenv("POSECFG_OUTPUT", "markdown")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("output", "", "output format")
		require.NoError(t, flags.Set("output", "json"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.OutputFormat)
	})

	t.Run("unset flag falls back to env", func(t *testing.T) {
		t.Setenv("POSECFG_OUTPUT", "markdown")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("output", "text", "output format")

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})

	t.Run("kebab-case flags map to settings keys", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("log-level", "", "log level")
		require.NoError(t, flags.Set("log-level", "debug"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("nested env keys and lists", func(t *testing.T) {
		t.Setenv("POSECFG_LINT__DISABLED", "CS04,CP02")
		t.Setenv("POSECFG_VERBOSE", "true")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"CS04", "CP02"}, cfg.Lint.Disabled)
		assert.True(t, cfg.Verbose)
	})

	t.Run("thresholds from env", func(t *testing.T) {
		t.Setenv("POSECFG_LINT__THRESHOLDS__CT01__MIN_FRACTION", "0.3")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)

		lc, err := cfg.Lint.AnalyzerConfig()
		require.NoError(t, err)
		assert.Equal(t, 0.3, lint.GetFloatOption(lc.Options["CT01"], "min_fraction", 0.5))
	})
}

func TestLoadConfig_FileFlag(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "project.yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("file", "", "project document")
	require.NoError(t, flags.Set("file", doc))

	cfg, err := LoadConfig(writeSettings(t, "{}\n"), flags)
	require.NoError(t, err)

	assert.Equal(t, doc, cfg.ConfigFile)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, doc, cfg.DocumentPath(""))
	assert.Equal(t, "other.yaml", cfg.DocumentPath("other.yaml"))
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown policy", "policy: relaxed\n", "unknown policy"},
		{"unknown log level", "log_level: loud\n", "invalid log_level"},
		{"malformed yaml", "policy: [\n", "error reading settings file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeSettings(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLintConfig_UnknownSeverity(t *testing.T) {
	lc := LintConfig{Severity: map[string]string{"CS01": "fatal"}}
	_, err := lc.AnalyzerConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lint.severity.CS01")
}

func TestConfig_SlogLevel(t *testing.T) {
	cfg := Default()
	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	cfg.Verbose = true
	level, err = cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestConfig_DocumentPath(t *testing.T) {
	cfg := &Config{ConfigFile: "config.yaml", ProjectRoot: filepath.Join("does", "not", "exist")}
	assert.Equal(t, filepath.Join("does", "not", "exist", "config.yaml"), cfg.DocumentPath(""))

	cfg.ConfigFile = ""
	cfg.ProjectRoot = ""
	assert.Equal(t, "config.yaml", cfg.DocumentPath(""))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx))
	assert.Equal(t, Default(), FromContext(ctx))

	logger := slog.New(slog.DiscardHandler)
	cfg := &Config{Policy: "lenient"}
	ctx = WithConfig(WithLogger(ctx, logger), cfg)

	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, cfg, FromContext(ctx))
	assert.Equal(t, loggerKey{}, LoggerKey())
}
