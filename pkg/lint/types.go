package lint

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/posecfg/pkg/core"
)

// Diagnostic is a single health finding.
type Diagnostic struct {
	RuleID   string        `json:"rule_id"`
	Severity core.Severity `json:"severity"`
	Message  string        `json:"message"`
	Field    string        `json:"field,omitempty"` // document key, e.g. "skeleton[3]"
}

// Context provides everything a rule needs to inspect a config.
type Context struct {
	cfg     *core.ProjectConfig
	source  string
	dir     string
	options map[string]map[string]any
	stat    func(string) (fs.FileInfo, error)
}

// NewContext creates a context for cfg loaded from source. Relative
// paths in the config resolve against the directory of source.
func NewContext(cfg *core.ProjectConfig, source string) *Context {
	dir := "."
	if source != "" {
		dir = filepath.Dir(source)
	}
	return &Context{
		cfg:    cfg,
		source: source,
		dir:    dir,
		stat:   os.Stat,
	}
}

// WithOptions sets per-rule options, keyed by rule ID.
func (c *Context) WithOptions(opts map[string]map[string]any) *Context {
	c.options = opts
	return c
}

// WithStat replaces the function used to check paths on disk.
func (c *Context) WithStat(stat func(string) (fs.FileInfo, error)) *Context {
	c.stat = stat
	return c
}

// Config returns the config under analysis.
func (c *Context) Config() *core.ProjectConfig {
	return c.cfg
}

// Source returns the path the config was loaded from.
func (c *Context) Source() string {
	return c.source
}

// Options returns the options for a rule. The result may be nil.
func (c *Context) Options(ruleID string) map[string]any {
	return c.options[ruleID]
}

// Exists reports whether path exists. Relative paths resolve against the
// config's directory.
func (c *Context) Exists(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	_, err := c.stat(path)
	return err == nil
}
