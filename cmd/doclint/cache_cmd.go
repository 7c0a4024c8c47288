package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/doclint/internal/cache"
	"github.com/raphi011/doclint/internal/output"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Manage the analysis cache",
		GroupID: GroupUtility,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached analysis results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := effectiveConfig(ctx)
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return err
			}
			store, err := cache.Open(dir)
			if err != nil {
				return err
			}
			if err := store.Clear(ctx); err != nil {
				return err
			}
			output.FromContext(ctx).WriteLine("Cleared " + dir)
			return nil
		},
	})

	return cmd
}
