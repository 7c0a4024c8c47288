package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/doclint/internal/config"
	"github.com/raphi011/doclint/internal/log"
	"github.com/raphi011/doclint/internal/output"
	"github.com/raphi011/doclint/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// annotationNoConfig marks commands that must work with a broken config file.
const annotationNoConfig = "doclint/no-config"

// cli holds the streams and global flags shared by every command.
type cli struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	quiet   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "doclint",
		Short: "Diagnose and fix whitespace and style issues in text files",
		Long: `doclint checks documentation and other text files for trailing
whitespace, tabs, CRLF line endings, long lines, leftover TODO markers and a
missing final newline. It fixes what it can, asking before each change.

Paths are processed concurrently; every path gets exactly one result.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}
			return c.setup(cmd)
		},
		// Run is not set - shows help when no subcommand provided
	}

	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Show debug output on stderr")
	rootCmd.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newDoctorCmd(c))
	rootCmd.AddCommand(newLintCmd(c))

	// Utility commands
	rootCmd.AddCommand(newAnalyzeCmd(c))
	rootCmd.AddCommand(newCacheCmd(c))

	// Config commands
	rootCmd.AddCommand(newConfigCmd(c))
	rootCmd.AddCommand(newVersionCmd(c))

	return rootCmd
}

// setup loads the global config and attaches the logger, output writer and
// config resolver to the command context.
func (c *cli) setup(cmd *cobra.Command) error {
	logger := log.New(c.stderr, c.verbose, c.quiet)

	loaded, err := config.Load()
	if err != nil {
		if _, ok := cmd.Annotations[annotationNoConfig]; !ok {
			return err
		}
		logger.Printf("Warning: %v\n", err)
		loaded = config.Default()
	}

	if err := styles.Apply(loaded.UI.Theme); err != nil {
		logger.Printf("Warning: %v\n", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.WithLogger(ctx, logger)
	ctx = output.WithWriter(ctx, output.New(c.colorWriter(), output.WithErrorLog(logger)))
	ctx = config.WithResolver(ctx, config.NewResolver(&loaded))
	cmd.SetContext(ctx)
	return nil
}

// colorWriter wraps stdout so styled text degrades to the terminal's
// colour profile, or to plain text when stdout is not a terminal.
func (c *cli) colorWriter() io.Writer {
	return colorprofile.NewWriter(c.stdout, os.Environ())
}

// effectiveConfig returns the config for the working directory: global,
// then the nearest .doclint.toml, then DOCLINT_* environment variables.
func effectiveConfig(ctx context.Context) (*config.Config, error) {
	resolver := config.ResolverFromContext(ctx)
	if resolver == nil {
		return nil, errors.New("config not loaded")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	merged, err := resolver.ConfigForDir(wd)
	if err != nil {
		return nil, err
	}
	cfg := *merged
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
