package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func TestCP01_ProjectPath(t *testing.T) {
	dir := t.TempDir()

	cfg := &core.ProjectConfig{ProjectPath: dir}
	assert.Empty(t, checkProjectPath(lint.NewContext(cfg, filepath.Join(dir, "config.yaml"))))

	cfg.ProjectPath = filepath.Join(dir, "moved-away")
	diags := checkProjectPath(lint.NewContext(cfg, filepath.Join(dir, "config.yaml")))
	require.Len(t, diags, 1)
	assert.Equal(t, "project_path", diags[0].Field)
}

func TestCP02_MissingVideos(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "videos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "videos", "a.avi"), nil, 0o644))

	cfg := &core.ProjectConfig{
		VideoSets: map[string]core.VideoSet{
			filepath.Join(dir, "videos", "a.avi"): {},
			"videos/a.avi":                        {}, // relative to the config file
			filepath.Join(dir, "videos", "z.avi"): {},
			"videos/b.avi":                        {},
		},
	}

	diags := checkMissingVideos(lint.NewContext(cfg, filepath.Join(dir, "config.yaml")))
	require.Len(t, diags, 2)
	assert.Equal(t, "video_sets["+filepath.Join(dir, "videos", "z.avi")+"]", diags[0].Field)
	assert.Equal(t, "video_sets[videos/b.avi]", diags[1].Field)
}
