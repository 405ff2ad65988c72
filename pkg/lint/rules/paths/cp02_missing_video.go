package paths

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CP02",
		Name:        "missing-video",
		Group:       "project",
		Description: "Video listed in video_sets does not exist",
		Severity:    core.SeverityWarning,
		Check:       checkMissingVideos,
		Fix:         "Fix the path, or remove the video from video_sets.",
	})
}

func checkMissingVideos(ctx *lint.Context) []lint.Diagnostic {
	videos := make([]string, 0, len(ctx.Config().VideoSets))
	for path := range ctx.Config().VideoSets {
		videos = append(videos, path)
	}
	sort.Strings(videos)

	var diagnostics []lint.Diagnostic
	for _, path := range videos {
		if ctx.Exists(path) {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "CP02",
			Severity: core.SeverityWarning,
			Message:  fmt.Sprintf("Video '%s' does not exist", path),
			Field:    fmt.Sprintf("video_sets[%s]", path),
		})
	}
	return diagnostics
}
