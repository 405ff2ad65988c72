package training

import (
	"fmt"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

// DefaultMinFrames is the smallest numframes2pick CT02 accepts by default.
const DefaultMinFrames = 20

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CT02",
		Name:        "few-frames-to-label",
		Group:       "training",
		Description: "Too few frames are extracted per video for labeling",
		Severity:    core.SeverityInfo,
		Check:       checkFewFrames,
		ConfigKeys:  []string{"min_frames"},
		Fix:         "Raise numframes2pick, or add more videos to video_sets.",
	})
}

func checkFewFrames(ctx *lint.Context) []lint.Diagnostic {
	minFrames := lint.GetIntOption(ctx.Options("CT02"), "min_frames", DefaultMinFrames)
	n := ctx.Config().NumFramesPick
	if n >= minFrames {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "CT02",
		Severity: core.SeverityInfo,
		Message:  fmt.Sprintf("numframes2pick is %d; at least %d frames per video is recommended", n, minFrames),
		Field:    "numframes2pick",
	}}
}
