package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func TestCT01_LowTrainingFraction(t *testing.T) {
	tests := []struct {
		name      string
		fractions []float64
		opts      map[string]map[string]any
		wantDiags int
	}{
		{name: "typical split", fractions: []float64{0.95}, wantDiags: 0},
		{name: "inverted split", fractions: []float64{0.05, 0.8}, wantDiags: 1},
		{name: "custom threshold", fractions: []float64{0.8}, opts: map[string]map[string]any{"CT01": {"min_fraction": 0.9}}, wantDiags: 1},
		{name: "integer threshold", fractions: []float64{0.95}, opts: map[string]map[string]any{"CT01": {"min_fraction": 1}}, wantDiags: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &core.ProjectConfig{}
			cfg.TrainingFraction = tt.fractions
			ctx := lint.NewContext(cfg, "").WithOptions(tt.opts)

			diags := checkLowTrainingFraction(ctx)
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestCT02_FewFrames(t *testing.T) {
	cfg := &core.ProjectConfig{}
	cfg.NumFramesPick = 5

	diags := checkFewFrames(lint.NewContext(cfg, ""))
	require.Len(t, diags, 1)
	assert.Equal(t, "numframes2pick", diags[0].Field)

	ctx := lint.NewContext(cfg, "").WithOptions(map[string]map[string]any{"CT02": {"min_frames": 5}})
	assert.Empty(t, checkFewFrames(ctx))

	cfg.NumFramesPick = 100
	assert.Empty(t, checkFewFrames(lint.NewContext(cfg, "")))
}
