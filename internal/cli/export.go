package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"datalens/internal/core/csvexport"
	"datalens/internal/core/sqlguard"
	perr "datalens/internal/platform/errors"
)

// NewExportCommand runs a guarded statement and writes the rows as CSV
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output string
		gw     GatewayOptions
	)
	cmd := &cobra.Command{
		Use:   `export "<sql>" -o file.csv`,
		Short: "Run a read only statement and write the result as CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			stmt, err := sqlguard.Statement(strings.Join(args, " "))
			if err != nil {
				return out.Fail(ExitFailure, err)
			}
			exec, err := gw.executor()
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}
			set, err := exec.Query(cmd.Context(), stmt)
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}

			// "-" streams to stdout without a summary line
			if output == "-" {
				if err := csvexport.Write(cmd.OutOrStdout(), set); err != nil {
					return out.Fail(ExitFailure, err)
				}
				return nil
			}
			if err := writeFile(output, func(w io.Writer) error { return csvexport.Write(w, set) }); err != nil {
				return out.Fail(ExitFailure, err)
			}
			return out.Success(map[string]any{"file": output, "rows": set.Len()}, "✓ wrote "+output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "csv file, - for stdout (default query-results-<date>.csv)")
	gw.bind(cmd)
	cmd.PreRun = func(*cobra.Command, []string) {
		if output == "" {
			output = csvexport.FileName(timeNow())
		}
	}
	return cmd
}

// writeFile renames a temp file into place once fn succeeds
func writeFile(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(dirOf(path), ".datalens-export-*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create %s", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "rename to %s", path)
	}
	return nil
}
