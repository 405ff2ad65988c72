package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/posecfg/internal/cli/config"
	"github.com/leapstack-labs/posecfg/internal/cli/output"
	intconfig "github.com/leapstack-labs/posecfg/internal/config"
	"github.com/leapstack-labs/posecfg/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the settings and logger
// the root command stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// WithFormat replaces the renderer when a per-command format is given.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) error {
	if format == "" {
		return nil
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return err
	}
	c.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	return nil
}

// Policy returns override if set, otherwise the configured policy.
func (c *CommandContext) Policy(override string) (core.Policy, error) {
	if override != "" {
		return core.ParsePolicy(override)
	}
	return c.Cfg.ParsedPolicy()
}

// Load reads one project document.
func (c *CommandContext) Load(path string, policy core.Policy) (*intconfig.LoadResult, error) {
	return intconfig.LoadFile(path, intconfig.LoadOptions{
		Policy: policy,
		Logger: c.Logger,
	})
}

// problemMessages flattens a load error into one message per problem.
func problemMessages(err error) []string {
	var ve *intconfig.ValidationError
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve.Problems))
		for _, p := range ve.Problems {
			msgs = append(msgs, p.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

// reportLoadError prints every problem of a failed load and returns a
// short error for the exit status.
func reportLoadError(r *output.Renderer, path string, err error) error {
	msgs := problemMessages(err)
	for _, msg := range msgs {
		r.Error(msg)
	}
	return fmt.Errorf("%s: %d problem(s) found", path, len(msgs))
}
