package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/posecfg/pkg/core"
)

func TestSave_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		policy core.Policy
	}{
		{name: "full document", file: "valid_config.yaml"},
		{name: "minimal document", file: "minimal_config.yaml"},
		{name: "dangling references under lenient policy", file: "sample_config.yaml", policy: core.PolicyLenient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := LoadFile(filepath.Join("testdata", tt.file), LoadOptions{Policy: tt.policy})
			require.NoError(t, err)

			data, err := Marshal(first.Config)
			require.NoError(t, err)

			second, err := LoadBytes(data, LoadOptions{Policy: tt.policy})
			require.NoError(t, err, "reloading:\n%s", data)
			assert.Equal(t, first.Config, second.Config)

			// Saving is stable once normalized.
			again, err := Marshal(second.Config)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestSave_NewProjectLoads(t *testing.T) {
	cfg := NewProject("openfield", "bob", "Feb02", "/data/openfield", []string{"nose", "tail"})
	cfg.Skeleton = []core.Edge{{"nose", "tail"}}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, cfg))

	res, err := Load(&buf, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, cfg, res.Config)
}

func TestSave_Layout(t *testing.T) {
	res, err := LoadFile(filepath.Join("testdata", "valid_config.yaml"), LoadOptions{})
	require.NoError(t, err)

	data, err := Marshal(res.Config)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# Project definitions (do not edit)\nTask: reaching\n")
	assert.Contains(t, out, "corner2move2: [50, 50]\n")
	assert.Contains(t, out, "snapshotindex: all\n")
	assert.Contains(t, out, "crop: 0, 1280, 0, 1024\n")

	// Keys keep their canonical order.
	order := []string{"Task:", "video_sets:", "bodyparts:", "numframes2pick:", "skeleton:", "TrainingFraction:", "cropping:", "move2corner:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, "\n"+key)
		require.Greater(t, idx, last, "key %s out of order", key)
		last = idx
	}
}

func TestSave_NilConfig(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Save(&buf, nil))
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o600))

	cfg := NewProject("openfield", "bob", "Feb02", dir, []string{"nose"})
	require.NoError(t, SaveFile(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	res, err := LoadFile(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, cfg, res.Config)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
