package cli

import (
	"time"

	"github.com/spf13/cobra"

	"datalens/internal/adapters/analytics"
	"datalens/internal/core/chartdata"
	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	perr "datalens/internal/platform/errors"
)

// GatewayOptions locate the analytics gateway
type GatewayOptions struct {
	URL     string
	Token   string
	Timeout time.Duration
}

func (g *GatewayOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&g.URL, "analytics-url", "", "iot-analytics gateway base url")
	cmd.Flags().StringVar(&g.Token, "token", "", "bearer token for the gateway")
	cmd.Flags().DurationVar(&g.Timeout, "timeout", 30*time.Second, "request timeout")
}

func (g *GatewayOptions) executor() (analytics.Executor, error) {
	if g.URL == "" {
		return nil, perr.WithField(perr.InvalidArgf("--analytics-url is required"), "analytics-url")
	}
	return analytics.NewClient(analytics.Options{
		Services:  map[analytics.Service]string{analytics.ServiceIoTAnalytics: g.URL},
		Token:     g.Token,
		UserAgent: "datalens-cli",
		Timeout:   g.Timeout,
	}), nil
}

// RunResult is what run prints
type RunResult struct {
	SQL       string         `json:"sql"`
	Total     int            `json:"total"`
	Truncated bool           `json:"truncated"`
	Chart     chartdata.Data `json:"chart"`
}

// NewRunCommand builds, executes and projects a draft
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file string
		gw   GatewayOptions
	)
	cmd := &cobra.Command{
		Use:   "run -f draft.yaml --analytics-url URL",
		Short: "Execute a chart draft and print its chart data as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// chart data is only meaningful as JSON
			out := newFormatter(&RootOptions{Format: "json", Verbose: rootOpts.Verbose}, cmd.OutOrStdout(), cmd.ErrOrStderr())
			d, err := loadDraft(file)
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}
			sql, err := querygen.Build(d)
			if err != nil {
				return out.Fail(ExitFailure, err)
			}
			exec, err := gw.executor()
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}
			out.VerboseLog("running %s", sql)
			set, err := exec.Query(cmd.Context(), sql)
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}
			capped, truncated := set.Truncate(rowset.MaxRows)
			return out.Success(RunResult{
				SQL:       sql,
				Total:     set.Len(),
				Truncated: truncated,
				Chart:     chartdata.FromDraft(capped, d),
			}, "")
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "draft file (yaml or json)")
	gw.bind(cmd)
	return cmd
}
