// Package core defines the shared language of posecfg.
//
// This package contains:
//   - The DeepLabCut project document (ProjectConfig and its groups)
//   - Diagnostic severities and rule metadata
//   - The validation Policy for cross-reference problems
//
// pkg/core imports only the standard library and yaml.v3 (for the custom
// scalar encodings of crop boxes and snapshot indexes). Everything else
// depends on core, not the reverse.
package core
