package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func newContext(bodyParts []string, edges ...core.Edge) *lint.Context {
	cfg := &core.ProjectConfig{BodyParts: bodyParts}
	cfg.Skeleton = edges
	return lint.NewContext(cfg, "")
}

func TestCS01_DanglingNodes(t *testing.T) {
	tests := []struct {
		name      string
		ctx       *lint.Context
		wantNames []string
	}{
		{
			name: "all declared",
			ctx:  newContext([]string{"a", "b"}, core.Edge{"a", "b"}),
		},
		{
			name:      "undeclared endpoint reported once",
			ctx:       newContext([]string{"wrist"}, core.Edge{"wrist", "d2_mc_body"}, core.Edge{"d2_mc_body", "wrist"}),
			wantNames: []string{"skeleton[0]"},
		},
		{
			name:      "both endpoints undeclared",
			ctx:       newContext([]string{"wrist"}, core.Edge{"x", "y"}),
			wantNames: []string{"skeleton[0]", "skeleton[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := checkDanglingNodes(tt.ctx)
			var fields []string
			for _, d := range diags {
				assert.Equal(t, "CS01", d.RuleID)
				assert.Equal(t, core.SeverityError, d.Severity)
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.wantNames, fields)
		})
	}
}

func TestCS02_DuplicateEdges(t *testing.T) {
	ctx := newContext([]string{"a", "b", "c"},
		core.Edge{"a", "b"},
		core.Edge{"b", "c"},
		core.Edge{"b", "a"},
		core.Edge{"a", "b"},
	)

	diags := checkDuplicateEdges(ctx)
	require.Len(t, diags, 2)
	assert.Equal(t, "skeleton[2]", diags[0].Field)
	assert.Equal(t, "skeleton[3]", diags[1].Field)
	assert.Contains(t, diags[0].Message, "repeats edge 0")
}

func TestCS03_SelfLoops(t *testing.T) {
	ctx := newContext([]string{"a", "b"}, core.Edge{"a", "b"}, core.Edge{"b", "b"})

	diags := checkSelfLoops(ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "skeleton[1]", diags[0].Field)
	assert.Equal(t, "Skeleton edge 'b - b' connects 'b' to itself", diags[0].Message)
}

func TestCS04_Unconnected(t *testing.T) {
	tests := []struct {
		name      string
		ctx       *lint.Context
		wantDiags int
	}{
		{name: "no skeleton", ctx: newContext([]string{"a", "b"}), wantDiags: 0},
		{name: "all connected", ctx: newContext([]string{"a", "b"}, core.Edge{"a", "b"}), wantDiags: 0},
		{name: "one free", ctx: newContext([]string{"a", "b", "tail"}, core.Edge{"a", "b"}), wantDiags: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := checkUnconnected(tt.ctx)
			assert.Len(t, diags, tt.wantDiags)
			for _, d := range diags {
				assert.Equal(t, core.SeverityInfo, d.Severity)
			}
		})
	}
}

func TestRulesRegistered(t *testing.T) {
	for _, id := range []string{"CS01", "CS02", "CS03", "CS04"} {
		rule, ok := lint.GetByID(id)
		require.True(t, ok, id)
		assert.Equal(t, "skeleton", rule.Group)
	}
}
