package skeleton

import (
	"fmt"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CS03",
		Name:        "self-loop-edge",
		Group:       "skeleton",
		Description: "Skeleton edge connects a body part to itself",
		Severity:    core.SeverityWarning,
		Check:       checkSelfLoops,
		BadExample:  "skeleton:\n- [snout, snout]",
		Fix:         "Point one end of the edge at the intended neighbor.",
	})
}

func checkSelfLoops(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for i, edge := range ctx.Config().Skeleton {
		if edge[0] != edge[1] {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "CS03",
			Severity: core.SeverityWarning,
			Message:  fmt.Sprintf("Skeleton edge '%s' connects '%s' to itself", edge, edge[0]),
			Field:    fmt.Sprintf("skeleton[%d]", i),
		})
	}
	return diagnostics
}
