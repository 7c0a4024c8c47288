package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/doclint/internal/config"
	"github.com/raphi011/doclint/internal/output"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage doclint configuration.

Global config: ~/.config/doclint/config.toml (or $DOCLINT_CONFIG)
Local config:  .doclint.toml (nearest one at or above the working directory)`,
		Example: `  doclint config init     # Create default global config
  doclint config show     # Show effective config
  doclint config schema   # Print the config JSON Schema`,
	}

	cmd.AddCommand(newConfigInitCmd(c))
	cmd.AddCommand(newConfigShowCmd(c))
	cmd.AddCommand(newConfigSchemaCmd(c))

	return cmd
}

func newConfigInitCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: ""},
		Example: `  doclint config init      # Create global config
  doclint config init -f   # Overwrite existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(force)
			if err != nil {
				if !force {
					return fmt.Errorf("%w (use -f to overwrite)", err)
				}
				return err
			}
			output.FromContext(cmd.Context()).WriteLine("Created config file: " + path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")

	return cmd
}

func newConfigShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration for the working directory: the
global config merged with the nearest .doclint.toml and DOCLINT_*
environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd.Context())
			if err != nil {
				return err
			}
			text, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.stdout, text)
			return err
		},
	}
}

func newConfigSchemaCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "schema",
		Short:       "Print the config file JSON Schema",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(config.Schema(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.stdout, string(data))
			return err
		},
	}
}
