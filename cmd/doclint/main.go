package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/raphi011/doclint/internal/telemetry"
)

// Version information - set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// exitError makes the process exit with code without printing anything.
// The command has already reported the outcome.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx := context.Background()

	tcfg := telemetry.FromEnv(os.Getenv, version)
	if tcfg.Enabled() {
		shutdown, err := telemetry.Init(ctx, tcfg)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: telemetry disabled: %v\n", err)
		} else {
			defer func() {
				if err := shutdown(context.WithoutCancel(ctx)); err != nil {
					fmt.Fprintf(stderr, "Warning: telemetry shutdown: %v\n", err)
				}
			}()
		}
	}

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	fmt.Fprintln(stderr, err)
	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, "Run 'doclint -h' for help")
	return 1
}

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("doclint %s (%s, %s, %s)", version, commit[:min(7, len(commit))], date, runtime.Version())
}
