// Command brandqr renders branded QR codes and serves share pages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/internal/cli"
	qrerrors "github.com/matzehuels/brandqr/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // SIGINT
		}
		fmt.Fprintln(os.Stderr, qrerrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps input and configuration errors to 2, everything else to 1.
func exitCode(err error) int {
	switch qrerrors.GetCode(err) {
	case qrerrors.ErrCodeInvalidInput, qrerrors.ErrCodeInvalidConfig, qrerrors.ErrCodeInvalidFormat:
		return 2
	}
	return 1
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
