package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCropBox(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CropBox
		wantErr string
	}{
		{name: "canonical", input: "0, 640, 0, 480", want: CropBox{X1: 0, X2: 640, Y1: 0, Y2: 480}},
		{name: "no spaces", input: "10,20,30,40", want: CropBox{X1: 10, X2: 20, Y1: 30, Y2: 40}},
		{name: "too few values", input: "0, 640, 0", wantErr: "four comma-separated"},
		{name: "not a number", input: "0, abc, 0, 480", wantErr: `"abc" is not an integer`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCropBox(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCropBox_YAML(t *testing.T) {
	in := VideoSet{Crop: CropBox{X1: 0, X2: 1280, Y1: 0, Y2: 1024}}

	out, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, "crop: 0, 1280, 0, 1024\n", string(out))

	var back VideoSet
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, in, back)
}

func TestSnapshotIndex(t *testing.T) {
	t.Run("integer", func(t *testing.T) {
		var s SnapshotIndex
		require.NoError(t, yaml.Unmarshal([]byte("-1"), &s))
		assert.Equal(t, SnapshotIndex{Index: -1}, s)
		assert.Equal(t, "-1", s.String())
	})

	t.Run("all", func(t *testing.T) {
		var s SnapshotIndex
		require.NoError(t, yaml.Unmarshal([]byte("all"), &s))
		assert.True(t, s.All)

		out, err := yaml.Marshal(s)
		require.NoError(t, err)
		assert.Equal(t, "all\n", string(out))

		js, err := json.Marshal(s)
		require.NoError(t, err)
		assert.Equal(t, `"all"`, string(js))
	})

	t.Run("other string rejected", func(t *testing.T) {
		var s SnapshotIndex
		err := yaml.Unmarshal([]byte("latest"), &s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "snapshotindex")
	})
}

func TestPlotting_SkeletonNodes(t *testing.T) {
	p := Plotting{Skeleton: []Edge{
		{"wrist", "d1_tip"},
		{"d1_tip", "d2_tip"},
		{"wrist", "d2_tip"},
	}}

	assert.True(t, p.HasSkeletonEdges())
	assert.Equal(t, []string{"wrist", "d1_tip", "d2_tip"}, p.SkeletonNodes())
	assert.Equal(t, "wrist - d1_tip", p.Skeleton[0].String())
}

func TestProjectConfig_BodyPartIndex(t *testing.T) {
	cfg := ProjectConfig{BodyParts: []string{"a", "b"}}
	idx := cfg.BodyPartIndex()
	assert.True(t, idx["a"])
	assert.True(t, idx["b"])
	assert.False(t, idx["c"])
}
