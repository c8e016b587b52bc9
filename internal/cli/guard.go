package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"datalens/internal/core/sqlguard"
)

// NewGuardCommand checks a statement against the SQL Lab policy
func NewGuardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   `guard "<sql>"`,
		Short: "Check a statement against the SQL Lab read only policy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			stmt, err := sqlguard.Statement(strings.Join(args, " "))
			if err != nil {
				return out.Fail(ExitFailure, err)
			}
			return out.Success(map[string]string{"sql": stmt}, "✓ allowed: "+stmt)
		},
	}
}
