package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/posecfg/internal/cli/config"
	clitest "github.com/leapstack-labs/posecfg/internal/cli/testutil"
)

func defaultSettings() *config.Config {
	return config.Default()
}

func TestShowCommand_Markdown(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.ValidConfig)

	out, _, err := runCommand(t, NewShowCommand(), nil, filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "# reaching\n")
	assert.Contains(t, out, "- **Scorer**: alice")
	assert.Contains(t, out, "## Body parts (3)")
	assert.Contains(t, out, "## Skeleton (2 edges)")
	assert.Contains(t, out, "videos/session1.avi")
	assert.Contains(t, out, "0, 640, 0, 480")
	assert.Contains(t, out, "- **Training fraction**: 0.95")
	assert.NotContains(t, out, "## Cropping")
	clitest.AssertValidMarkdown(t, out)
}

func TestShowCommand_Text(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.ValidConfig)

	out, _, err := runCommand(t, NewShowCommand(), nil, "--format", "text", filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "reaching")
	assert.Contains(t, out, "Scorer: alice")
	assert.Contains(t, out, "rightpaw")
}

func TestShowCommand_JSON(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.ValidConfig)

	out, _, err := runCommand(t, NewShowCommand(), nil, "-f", "json", filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "reaching", doc["task"])
	assert.Equal(t, []any{"snout", "leftpaw", "rightpaw"}, doc["bodyparts"])
	assert.InDelta(t, 0.6, doc["pcutoff"], 1e-9)
}

func TestShowCommand_Dangling(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.DanglingConfig)
	path := filepath.Join(dir, "config.yaml")

	_, stderr, err := runCommand(t, NewShowCommand(), nil, path)
	require.Error(t, err)
	assert.Contains(t, stderr, "undeclared body part(s) referenced: tail")

	out, stderr, err := runCommand(t, NewShowCommand(), nil, "--policy", "lenient", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning:")
	assert.Contains(t, out, "tail")
}
