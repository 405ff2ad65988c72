package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/leapstack-labs/posecfg/internal/cli/testutil"
	intconfig "github.com/leapstack-labs/posecfg/internal/config"
)

// unordered moves iteration to the top so the document is not canonical.
func unordered() string {
	doc := strings.Replace(clitest.ValidConfig, "iteration: 0\n", "", 1)
	return "iteration: 0\n" + doc
}

func TestFmtCommand(t *testing.T) {
	dir := clitest.SetupTestProject(t, unordered())
	path := filepath.Join(dir, "config.yaml")
	before := clitest.ReadFile(t, path)

	// --check reports without writing.
	_, _, err := runCommand(t, NewFmtCommand(), nil, "--check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not formatted")
	assert.Equal(t, before, clitest.ReadFile(t, path))

	// --stdout prints without writing.
	out, _, err := runCommand(t, NewFmtCommand(), nil, "--stdout", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Task: reaching\n")
	assert.Equal(t, before, clitest.ReadFile(t, path))

	// Formatting rewrites in place.
	out, _, err = runCommand(t, NewFmtCommand(), nil, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Formatted")

	after := clitest.ReadFile(t, path)
	assert.NotEqual(t, before, after)
	assert.Less(t, strings.Index(after, "Task:"), strings.Index(after, "iteration:"))

	// Now canonical.
	_, _, err = runCommand(t, NewFmtCommand(), nil, "--check", path)
	require.NoError(t, err)

	out, _, err = runCommand(t, NewFmtCommand(), nil, path)
	require.NoError(t, err)
	assert.Contains(t, out, "already formatted")

	// Content is unchanged by formatting.
	orig, err := intconfig.LoadBytes([]byte(before), intconfig.LoadOptions{})
	require.NoError(t, err)
	formatted, err := intconfig.LoadFile(path, intconfig.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, orig.Config, formatted.Config)
}

func TestFmtCommand_InvalidDocument(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.DanglingConfig)
	path := filepath.Join(dir, "config.yaml")
	before := clitest.ReadFile(t, path)

	_, stderr, err := runCommand(t, NewFmtCommand(), nil, path)
	require.Error(t, err)
	assert.Contains(t, stderr, "tail")
	assert.Equal(t, before, clitest.ReadFile(t, path))

	_, _, err = runCommand(t, NewFmtCommand(), nil, "--policy", "lenient", path)
	require.NoError(t, err)
}

func TestFmtCommand_MissingFile(t *testing.T) {
	_, _, err := runCommand(t, NewFmtCommand(), nil, filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
