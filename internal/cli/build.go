package cli

import (
	"github.com/spf13/cobra"

	"datalens/internal/core/querygen"
)

// NewBuildCommand prints the SQL for a draft file
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "build -f draft.yaml",
		Short: "Print the SQL generated for a chart draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			d, err := loadDraft(file)
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}
			sql, err := querygen.Build(d)
			if err != nil {
				return out.Fail(ExitFailure, err)
			}
			return out.Success(map[string]string{"sql": sql}, sql)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "draft file (yaml or json)")
	return cmd
}

// NewValidateCommand reports whether a draft can be saved
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate -f draft.yaml",
		Short: "Check that a chart draft can be saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			d, err := loadDraft(file)
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}
			if err := d.CanCreate(); err != nil {
				return out.Fail(ExitFailure, err)
			}
			return out.Success(map[string]bool{"ok": true}, "✓ draft can be saved")
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "draft file (yaml or json)")
	return cmd
}
