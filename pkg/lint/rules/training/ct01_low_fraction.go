package training

import (
	"fmt"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

// DefaultMinTrainingFraction is the lowest fraction CT01 accepts by default.
const DefaultMinTrainingFraction = 0.5

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CT01",
		Name:        "low-training-fraction",
		Group:       "training",
		Description: "Training fraction leaves less than half the labeled frames for training",
		Severity:    core.SeverityWarning,
		Check:       checkLowTrainingFraction,
		ConfigKeys:  []string{"min_fraction"},
		Rationale: "TrainingFraction is the share of labeled frames used for training. " +
			"Low values are usually a typo for the test share.",
		BadExample:  "TrainingFraction:\n- 0.05",
		GoodExample: "TrainingFraction:\n- 0.95",
		Fix:         "Use the training share, typically 0.8 to 0.95.",
	})
}

func checkLowTrainingFraction(ctx *lint.Context) []lint.Diagnostic {
	minFraction := lint.GetFloatOption(ctx.Options("CT01"), "min_fraction", DefaultMinTrainingFraction)

	var diagnostics []lint.Diagnostic
	for i, f := range ctx.Config().TrainingFraction {
		if f >= minFraction {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "CT01",
			Severity: core.SeverityWarning,
			Message:  fmt.Sprintf("Training fraction %g is below %g", f, minFraction),
			Field:    fmt.Sprintf("TrainingFraction[%d]", i),
		})
	}
	return diagnostics
}
