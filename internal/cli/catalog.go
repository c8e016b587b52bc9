package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"datalens/internal/core/charttypes"
)

// NewCatalogCommand lists chart types like the gallery does
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	var q charttypes.Query
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List chart types, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			types := charttypes.Filter(q)
			if out.Format == "json" {
				return out.Success(types, "")
			}
			tw := tabwriter.NewWriter(out.Writer, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tTAGS")
			for _, c := range types {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Category, strings.Join(c.Tags, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "category, e.g. Basic")
	cmd.Flags().StringSliceVar(&q.Tags, "tag", nil, "tag, repeatable, any match")
	cmd.Flags().StringVar(&q.Search, "search", "", "name or description contains")
	return cmd
}
