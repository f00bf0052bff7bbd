package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess       = 0
	ExitMissingOrigin = 1
	ExitUsageError    = 2
	ExitToolError     = 3
	ExitRuntimeError  = 4
)

// app carries the output streams and the exit code set by command handlers.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	exitCode int
}

// Run executes the root command and returns an exit code. An interrupt
// cancels the run and kills a running svn client.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, exitCode: ExitSuccess}

	rootCmd := newRootCmd(a)
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Only flag parsing and unknown commands end up here.
		printError(stderr, err)
		fmt.Fprint(stderr, rootCmd.UsageString())
		return ExitUsageError
	}

	return a.exitCode
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print svnmirror version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "svnmirror version %s\n", version)
		},
	}
}
