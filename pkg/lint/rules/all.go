// Package rules registers all config health rules.
// Import this package to register every rule with the global registry.
package rules

import (
	// Blank imports trigger init() functions that register rules with the global registry.
	_ "github.com/leapstack-labs/posecfg/pkg/lint/rules/paths"    // registers CP* rules
	_ "github.com/leapstack-labs/posecfg/pkg/lint/rules/skeleton" // registers CS* rules
	_ "github.com/leapstack-labs/posecfg/pkg/lint/rules/training" // registers CT* rules
)
