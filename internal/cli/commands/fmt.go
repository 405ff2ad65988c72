package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	intconfig "github.com/leapstack-labs/posecfg/internal/config"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Check  bool
	Stdout bool
	Policy string
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a configuration file in canonical form",
		Long: `Load a configuration file and write it back with keys in canonical
order and the standard section comments.

The document must load first; fmt never rewrites an invalid file.
Comments other than the section comments are not preserved.`,
		Example: `  # Format the project config in place
  posecfg fmt

  # Fail if the file is not formatted
  posecfg fmt --check

  # Print the formatted document
  posecfg fmt --stdout path/to/config.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runFmt(cmd, path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report whether the file needs formatting without writing")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print the formatted document instead of writing it")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Validation policy: strict, lenient")

	return cmd
}

func runFmt(cmd *cobra.Command, path string, opts *FmtOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	policy, err := cmdCtx.Policy(opts.Policy)
	if err != nil {
		return err
	}
	path = cmdCtx.Cfg.DocumentPath(path)

	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := intconfig.LoadBytes(original, intconfig.LoadOptions{
		Policy: policy,
		Source: path,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return reportLoadError(r, path, err)
	}

	formatted, err := intconfig.Marshal(res.Config)
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", path, err)
	}

	if opts.Stdout {
		_, err := r.Writer().Write(formatted)
		return err
	}

	changed := !bytes.Equal(original, formatted)
	if opts.Check {
		if changed {
			return fmt.Errorf("%s is not formatted", path)
		}
		r.Success(fmt.Sprintf("%s is formatted", path))
		return nil
	}

	if !changed {
		r.Muted(fmt.Sprintf("%s already formatted", path))
		return nil
	}
	if err := intconfig.SaveFile(path, res.Config); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	cmdCtx.Logger.Info("formatted", "path", path)
	r.Success(fmt.Sprintf("Formatted %s", path))
	return nil
}
