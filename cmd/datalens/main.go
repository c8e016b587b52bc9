// Command datalens is the terminal companion to the datalens API
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"datalens/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		// commands print their own failures, cobra usage errors arrive unprinted
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
