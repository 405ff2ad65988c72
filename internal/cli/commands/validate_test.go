package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/leapstack-labs/posecfg/internal/cli/testutil"
)

func TestValidateCommand_Valid(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.ValidConfig)
	path := filepath.Join(dir, "config.yaml")

	out, _, err := runCommand(t, NewValidateCommand(), nil, path)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ "+path)
	assert.Contains(t, out, "reaching (scorer alice): 3 body part(s), 2 skeleton edge(s), 1 video(s)")
	assert.Contains(t, out, "1 file(s) valid")
	clitest.AssertNoANSI(t, out)
}

func TestValidateCommand_DefaultPath(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.ValidConfig)

	cfg := defaultSettings()
	cfg.ProjectRoot = dir
	out, _, err := runCommand(t, NewValidateCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "config.yaml"))
}

func TestValidateCommand_Policy(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.DanglingConfig)
	path := filepath.Join(dir, "config.yaml")

	t.Run("strict rejects undeclared names", func(t *testing.T) {
		out, _, err := runCommand(t, NewValidateCommand(), nil, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 file(s) failed validation")
		assert.Contains(t, out, "✗ "+path)
		assert.Contains(t, out, "1 undeclared body part(s) referenced: tail")
	})

	t.Run("lenient warns", func(t *testing.T) {
		out, _, err := runCommand(t, NewValidateCommand(), nil, "--policy", "lenient", path)
		require.NoError(t, err)
		assert.Contains(t, out, "warning:")
		assert.Contains(t, out, `"tail"`)
	})

	t.Run("policy from settings", func(t *testing.T) {
		cfg := defaultSettings()
		cfg.Policy = "lenient"
		_, _, err := runCommand(t, NewValidateCommand(), cfg, path)
		require.NoError(t, err)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, _, err := runCommand(t, NewValidateCommand(), nil, "--policy", "relaxed", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown policy")
	})
}

func TestValidateCommand_MultipleFilesJSON(t *testing.T) {
	good := filepath.Join(clitest.SetupTestProject(t, clitest.ValidConfig), "config.yaml")
	bad := filepath.Join(clitest.SetupTestProject(t, strings.Replace(clitest.ValidConfig, "scorer: alice\n", "", 1)), "config.yaml")
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	out, _, err := runCommand(t, NewValidateCommand(), nil, "--format", "json", "-j", "2", good, bad, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 file(s) failed validation")

	var result ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 3)
	assert.Equal(t, 1, result.Valid)
	assert.Equal(t, 2, result.Invalid)

	// Reports keep argument order.
	assert.Equal(t, good, result.Files[0].Path)
	assert.True(t, result.Files[0].Valid)
	assert.Equal(t, bad, result.Files[1].Path)
	require.Len(t, result.Files[1].Problems, 1)
	assert.Contains(t, result.Files[1].Problems[0], "scorer: required field is missing")
	assert.Equal(t, missing, result.Files[2].Path)
	assert.False(t, result.Files[2].Valid)
}

func TestValidateCommand_Schema(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.ValidConfig)
	path := filepath.Join(dir, "config.yaml")

	_, _, err := runCommand(t, NewValidateCommand(), nil, "--schema", path)
	require.NoError(t, err)
}
