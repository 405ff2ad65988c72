package core

import (
	"fmt"
	"strings"
)

// Policy decides how the loader treats skeleton edges that name
// undeclared body parts.
type Policy string

// Validation policies.
const (
	// PolicyStrict rejects the document with a DanglingReferenceError.
	PolicyStrict Policy = "strict"
	// PolicyLenient loads the document and reports each undeclared name
	// as a warning.
	PolicyLenient Policy = "lenient"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyStrict

// ParsePolicy converts a string to a Policy. The empty string maps to
// DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultPolicy, nil
	case PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown policy %q (expected %s or %s)", s, PolicyStrict, PolicyLenient)
	}
}
