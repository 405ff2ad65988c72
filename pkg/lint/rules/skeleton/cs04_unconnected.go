package skeleton

import (
	"fmt"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CS04",
		Name:        "unconnected-bodypart",
		Group:       "skeleton",
		Description: "Body part is not part of any skeleton edge",
		Severity:    core.SeverityInfo,
		Check:       checkUnconnected,
		Rationale: "Only reported when a skeleton is defined. A labeled point that no edge " +
			"touches is plotted as a lone dot, which is often an omission.",
		Fix: "Add an edge for the body part, or ignore if it is intentionally free-standing.",
	})
}

func checkUnconnected(ctx *lint.Context) []lint.Diagnostic {
	cfg := ctx.Config()
	if !cfg.HasSkeletonEdges() {
		return nil
	}

	connected := make(map[string]bool)
	for _, name := range cfg.SkeletonNodes() {
		connected[name] = true
	}

	var diagnostics []lint.Diagnostic
	for i, bp := range cfg.BodyParts {
		if connected[bp] {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "CS04",
			Severity: core.SeverityInfo,
			Message:  fmt.Sprintf("Body part '%s' is not connected to the skeleton", bp),
			Field:    fmt.Sprintf("bodyparts[%d]", i),
		})
	}
	return diagnostics
}
