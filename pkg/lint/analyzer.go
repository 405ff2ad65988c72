package lint

import "sort"

// Analyzer runs registered health rules against a config.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs all enabled rules and returns their findings ordered by
// severity, then rule ID.
func (a *Analyzer) Analyze(ctx *Context) []Diagnostic {
	if ctx == nil || ctx.Config() == nil {
		return nil
	}
	if ctx.options == nil {
		ctx.options = a.config.Options
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		diags := rule.Check(ctx)
		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Severity != diagnostics[j].Severity {
			return diagnostics[i].Severity < diagnostics[j].Severity
		}
		return diagnostics[i].RuleID < diagnostics[j].RuleID
	})
	return diagnostics
}

// Disable disables a rule by ID.
func (a *Analyzer) Disable(ruleID string) {
	a.config.Disable(ruleID)
}

// Enable enables a previously disabled rule.
func (a *Analyzer) Enable(ruleID string) {
	delete(a.config.DisabledRules, ruleID)
}
