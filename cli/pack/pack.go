package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/glorpus-work/pack/internal/cli"
	"github.com/glorpus-work/pack/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the command line and returns the exit code. Expected command
// failures are reported and exit 0; interrupts and anything unexpected
// exit 1.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := cli.NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil:
		_, _ = fmt.Fprintln(stderr, "Interrupted by user")
		return 1
	case errors.Reported(err):
		cli.ReportError(stderr, err)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unexpected error: %v\n", err)
		return 1
	}
}
