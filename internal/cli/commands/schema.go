package commands

import (
	"github.com/spf13/cobra"

	intconfig "github.com/leapstack-labs/posecfg/internal/config"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for config.yaml",
		Long: `Print the JSON schema (draft 2020-12) describing config.yaml.

Editors with YAML language server support can use it for completion and
inline validation. It is the same schema used by 'validate --schema'.`,
		Example: `  # Save the schema for an editor
  posecfg schema > config.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(intconfig.Schema())
			return err
		},
	}
}
