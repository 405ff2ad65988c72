// Package config loads, validates and writes DeepLabCut project
// configuration documents (config.yaml).
//
// Load reports every problem it finds in a single *ValidationError whose
// members are the typed errors in this package (ParseError,
// MissingFieldError, TypeMismatchError, RangeError,
// DanglingReferenceError, DuplicateNameError).
package config

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/posecfg/pkg/core"
)

// LoadOptions controls how a document is validated.
type LoadOptions struct {
	// Policy decides whether skeleton edges that name undeclared body
	// parts fail the load or only produce warnings. Empty means strict.
	Policy core.Policy

	// Source names the document in errors and warnings, usually its path.
	Source string

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Warning codes.
const (
	WarnDanglingReference = "dangling-reference"
	WarnUnknownKey        = "unknown-key"
)

// Warning is a non-fatal finding reported by a successful load.
type Warning struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Name    string `json:"name,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return prefixed("", w.Line, w.Column, w.Message)
}

// LoadResult is a validated document plus any warnings.
type LoadResult struct {
	Config   *core.ProjectConfig
	Warnings []Warning
	Source   string
}

// DanglingNames returns the undeclared body part names reported as
// warnings under the lenient policy.
func (r *LoadResult) DanglingNames() []string {
	var names []string
	for _, w := range r.Warnings {
		if w.Code == WarnDanglingReference {
			names = append(names, w.Name)
		}
	}
	return names
}

// Summary returns a one-line description of the loaded project.
func (r *LoadResult) Summary() string {
	c := r.Config
	return fmt.Sprintf("%s (scorer %s): %d body part(s), %d skeleton edge(s), %d video(s)",
		c.Task, c.Scorer, len(c.BodyParts), len(c.Skeleton), len(c.VideoSets))
}
