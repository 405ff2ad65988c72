package skeleton

import (
	"fmt"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CS01",
		Name:        "dangling-skeleton-node",
		Group:       "skeleton",
		Description: "Skeleton edge names a body part that is not declared",
		Severity:    core.SeverityError,
		Check:       checkDanglingNodes,
		Rationale: "Plotting looks up each skeleton endpoint among the labeled body parts. " +
			"An undeclared name has no coordinates, so the edge is silently dropped or the plot fails.",
		BadExample:  "bodyparts: [wrist, d2_mcp]\nskeleton:\n- [wrist, d2_mc_body]",
		GoodExample: "bodyparts: [wrist, d2_mc_body, d2_mcp]\nskeleton:\n- [wrist, d2_mc_body]",
		Fix:         "Add the name to bodyparts, or fix the spelling in the skeleton edge.",
	})
}

// checkDanglingNodes reports each undeclared skeleton endpoint once.
// Strict loading already rejects these; lenient loading lets them through.
func checkDanglingNodes(ctx *lint.Context) []lint.Diagnostic {
	cfg := ctx.Config()
	declared := cfg.BodyPartIndex()

	var diagnostics []lint.Diagnostic
	reported := make(map[string]bool)
	for i, edge := range cfg.Skeleton {
		for _, name := range edge {
			if declared[name] || reported[name] {
				continue
			}
			reported[name] = true
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "CS01",
				Severity: core.SeverityError,
				Message:  fmt.Sprintf("Skeleton edge '%s' references undeclared body part '%s'", edge, name),
				Field:    fmt.Sprintf("skeleton[%d]", i),
			})
		}
	}
	return diagnostics
}
