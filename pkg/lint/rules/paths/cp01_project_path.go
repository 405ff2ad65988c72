package paths

import (
	"fmt"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"github.com/leapstack-labs/posecfg/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "CP01",
		Name:        "missing-project-path",
		Group:       "project",
		Description: "project_path does not exist on this machine",
		Severity:    core.SeverityInfo,
		Check:       checkProjectPath,
		Rationale:   "project_path must be updated after a project is copied or moved.",
		Fix:         "Set project_path to the directory that contains config.yaml.",
	})
}

func checkProjectPath(ctx *lint.Context) []lint.Diagnostic {
	path := ctx.Config().ProjectPath
	if path == "" || ctx.Exists(path) {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "CP01",
		Severity: core.SeverityInfo,
		Message:  fmt.Sprintf("Project path '%s' does not exist", path),
		Field:    "project_path",
	}}
}
