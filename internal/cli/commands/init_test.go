package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intconfig "github.com/leapstack-labs/posecfg/internal/config"
	"github.com/leapstack-labs/posecfg/pkg/core"
)

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "openfield")

	out, _, err := runCommand(t, NewInitCommand(), nil, dir, "--scorer", "bob", "--date", "Feb02")
	require.NoError(t, err)
	assert.Contains(t, out, `Project "openfield" initialized!`)

	for _, sub := range projectDirs {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, "missing %s", sub)
		assert.True(t, info.IsDir())
	}

	res, err := intconfig.LoadFile(filepath.Join(dir, "config.yaml"), intconfig.LoadOptions{Policy: core.PolicyStrict})
	require.NoError(t, err)

	cfg := res.Config
	assert.Equal(t, "openfield", cfg.Task)
	assert.Equal(t, "bob", cfg.Scorer)
	assert.Equal(t, "Feb02", cfg.Date)
	assert.Equal(t, dir, cfg.ProjectPath)
	assert.Equal(t, defaultBodyParts, cfg.BodyParts)
	assert.Equal(t, defaultSkeleton, cfg.Skeleton)
	assert.Equal(t, []float64{0.95}, cfg.TrainingFraction)
	assert.Empty(t, res.Warnings)
}

func TestInitCommand_CustomBodyParts(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runCommand(t, NewInitCommand(), nil, dir,
		"--task", "maze", "--scorer", "bob", "--bodyparts", "nose,leftear,rightear")
	require.NoError(t, err)

	res, err := intconfig.LoadFile(filepath.Join(dir, "config.yaml"), intconfig.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "maze", res.Config.Task)
	assert.Equal(t, []string{"nose", "leftear", "rightear"}, res.Config.BodyParts)
	assert.Empty(t, res.Config.Skeleton)
}

func TestInitCommand_Existing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o600))

	_, _, err := runCommand(t, NewInitCommand(), nil, dir, "--scorer", "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))

	_, _, err = runCommand(t, NewInitCommand(), nil, dir, "--scorer", "bob", "--force")
	require.NoError(t, err)

	_, err = intconfig.LoadFile(path, intconfig.LoadOptions{})
	require.NoError(t, err)
}

func TestNewProjectConfig_Defaults(t *testing.T) {
	cfg := newProjectConfig("/data/reaching", &InitOptions{Scorer: "alice"})
	assert.Equal(t, "reaching", cfg.Task)
	assert.Equal(t, "alice", cfg.Scorer)
	assert.NotEmpty(t, cfg.Date)
	assert.NotNil(t, cfg.VideoSets)
}

func TestInitCommand_DuplicateBodyParts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "maze")

	_, stderr, err := runCommand(t, NewInitCommand(), nil, dir, "--scorer", "bob", "--bodyparts", "nose,tail,nose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 problem(s) found")
	assert.Contains(t, stderr, `"nose" is declared more than once`)

	_, statErr := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}
