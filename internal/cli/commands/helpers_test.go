package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/posecfg/internal/cli/config"
	"github.com/leapstack-labs/posecfg/internal/testutil"
)

// runCommand executes cmd with args the way the root command would,
// with settings and a test logger in the context.
func runCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true

	if cfg == nil {
		cfg = config.Default()
	}
	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))

	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}
