package skeleton

import (
	"fmt"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CS02",
		Name:        "duplicate-skeleton-edge",
		Group:       "skeleton",
		Description: "Skeleton lists the same connection more than once",
		Severity:    core.SeverityWarning,
		Check:       checkDuplicateEdges,
		Rationale:   "Skeleton edges are undirected. A repeated pair draws the same line twice.",
		BadExample:  "skeleton:\n- [snout, leftear]\n- [leftear, snout]",
		GoodExample: "skeleton:\n- [snout, leftear]",
		Fix:         "Remove the repeated edge.",
	})
}

func checkDuplicateEdges(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	first := make(map[core.Edge]int)

	for i, edge := range ctx.Config().Skeleton {
		key := undirected(edge)
		if j, seen := first[key]; seen {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "CS02",
				Severity: core.SeverityWarning,
				Message:  fmt.Sprintf("Skeleton edge '%s' repeats edge %d", edge, j),
				Field:    fmt.Sprintf("skeleton[%d]", i),
			})
			continue
		}
		first[key] = i
	}
	return diagnostics
}

// undirected orders the endpoints so [a, b] and [b, a] compare equal.
func undirected(e core.Edge) core.Edge {
	if e[1] < e[0] {
		return core.Edge{e[1], e[0]}
	}
	return e
}
