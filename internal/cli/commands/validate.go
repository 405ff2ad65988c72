package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/posecfg/internal/cli/output"
	intconfig "github.com/leapstack-labs/posecfg/internal/config"
	"github.com/leapstack-labs/posecfg/internal/watch"
	"github.com/leapstack-labs/posecfg/pkg/core"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Policy string // strict or lenient; empty uses settings
	Schema bool   // Also check against the JSON schema
	Watch  bool   // Re-validate on change
	Jobs   int    // Files loaded concurrently
	Format string // Output format
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate project configuration files",
		Long: `Load each configuration file and report every problem found.

Without arguments the config.yaml in the project root is validated.
Skeleton edges naming undeclared body parts are errors under the strict
policy and warnings under the lenient policy.

The command exits non-zero when any file fails to load.`,
		Example: `  # Validate the project config
  posecfg validate

  # Validate several files, accepting dangling skeleton names
  posecfg validate --policy lenient a/config.yaml b/config.yaml

  # Also check the JSON schema
  posecfg validate --schema

  # Re-validate whenever the file changes
  posecfg validate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Validation policy: strict, lenient")
	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "Also validate against the JSON schema")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate when files change")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.NumCPU(), "Files validated concurrently")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	_ = cmd.RegisterFlagCompletionFunc("policy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(core.PolicyStrict), string(core.PolicyLenient)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// ValidateOutput is the JSON output for the validate command.
type ValidateOutput struct {
	Files   []FileReport `json:"files"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
}

// FileReport is the validation result for one file.
type FileReport struct {
	Path     string              `json:"path"`
	Valid    bool                `json:"valid"`
	Summary  string              `json:"summary,omitempty"`
	Problems []string            `json:"problems,omitempty"`
	Warnings []intconfig.Warning `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.WithFormat(cmd, opts.Format); err != nil {
		return err
	}
	r := cmdCtx.Renderer

	policy, err := cmdCtx.Policy(opts.Policy)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{cmdCtx.Cfg.DocumentPath("")}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := validateFiles(ctx, cmdCtx, paths, policy, opts)
	if err != nil {
		return err
	}
	if err := renderValidate(r, out); err != nil {
		return err
	}

	if opts.Watch {
		return watchAndValidate(ctx, cmdCtx, paths, policy, opts)
	}

	if out.Invalid > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", out.Invalid, len(out.Files))
	}
	return nil
}

// validateFiles loads paths concurrently. Reports keep the order of paths.
func validateFiles(ctx context.Context, cmdCtx *CommandContext, paths []string, policy core.Policy, opts *ValidateOptions) (*ValidateOutput, error) {
	reports := make([]FileReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = validateFile(cmdCtx, path, policy, opts.Schema)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ValidateOutput{Files: reports}
	for _, rep := range reports {
		if rep.Valid {
			out.Valid++
		} else {
			out.Invalid++
		}
	}
	return out, nil
}

func validateFile(cmdCtx *CommandContext, path string, policy core.Policy, schema bool) FileReport {
	rep := FileReport{Path: path}

	res, err := cmdCtx.Load(path, policy)
	if err != nil {
		rep.Problems = problemMessages(err)
	} else {
		rep.Summary = res.Summary()
		rep.Warnings = res.Warnings
	}

	if schema && err == nil {
		rep.Problems = append(rep.Problems, schemaProblems(path)...)
	}

	rep.Valid = len(rep.Problems) == 0
	cmdCtx.Logger.Debug("validated", "path", path, "valid", rep.Valid, "problems", len(rep.Problems))
	return rep
}

func schemaProblems(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return []string{err.Error()}
	}
	defer func() { _ = f.Close() }()

	err = intconfig.ValidateSchema(f, path)
	if err == nil {
		return nil
	}
	var se *intconfig.SchemaError
	if errors.As(err, &se) {
		msgs := make([]string, 0, len(se.Violations))
		for _, v := range se.Violations {
			msgs = append(msgs, fmt.Sprintf("%s: schema: %s", path, v))
		}
		return msgs
	}
	return []string{err.Error()}
}

func renderValidate(r *output.Renderer, out *ValidateOutput) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	styles := r.Styles()
	for _, rep := range out.Files {
		if rep.Valid {
			r.StatusLine(rep.Path, "success", rep.Summary)
		} else {
			r.StatusLine(rep.Path, "error", "")
		}
		for _, p := range rep.Problems {
			r.Println("      " + styles.Error.Render(p))
		}
		for _, w := range rep.Warnings {
			r.Println("      " + styles.Warning.Render("warning: "+w.String()))
		}
	}

	if out.Invalid == 0 {
		r.Success(fmt.Sprintf("%d file(s) valid", out.Valid))
	} else {
		r.Println(styles.Error.Render(fmt.Sprintf("%d of %d file(s) invalid", out.Invalid, len(out.Files))))
	}
	return nil
}

func watchAndValidate(ctx context.Context, cmdCtx *CommandContext, paths []string, policy core.Policy, opts *ValidateOptions) error {
	w, err := watch.New(paths, watch.Options{Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	r.Muted(fmt.Sprintf("Watching %d file(s) for changes. Press Ctrl+C to stop.", len(paths)))

	return w.Run(ctx, func(changed []string) {
		out, err := validateFiles(ctx, cmdCtx, changed, policy, opts)
		if err != nil {
			return
		}
		if err := renderValidate(r, out); err != nil {
			cmdCtx.Logger.Error("render failed", "error", err)
		}
	})
}
