// Package lint runs health rules against a loaded project config.
//
// Loading (internal/config) decides whether a document is valid. The
// rules here look for things that load fine but are probably wrong:
// skeleton edges that repeat or loop, body parts nothing connects to,
// training splits that leave little to train on, and paths that do not
// exist on this machine.
//
// # Rule Registration
//
// Rules register themselves from init() functions. Import the rules
// package to register all of them:
//
//	import _ "github.com/leapstack-labs/posecfg/pkg/lint/rules"
//
// # Rule Groups
//
//   - CS (skeleton): skeleton graph consistency
//   - CT (training): training and labeling parameters
//   - CP (project): filesystem references
//
// # Running
//
//	ctx := lint.NewContext(cfg, "config.yaml")
//	diags := lint.NewAnalyzer(nil).Analyze(ctx)
package lint
