package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/payconiq/internal/config"
	"github.com/garrettladley/payconiq/internal/storage"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the key set and replay cache",
	}
	cmd.AddCommand(cacheMigrateCmd())
	cmd.AddCommand(cachePruneCmd())
	return cmd
}

func cacheMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the cache schema",
		Long:  "Opening the file and postgres caches applies pending migrations; memory and redis need none.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			cache, err := storage.Open(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			if err := cache.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("cache unreachable: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache %q ready\n", cfg.Cache.Driver)
			return nil
		},
	}
}

func cachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			cache, err := storage.Open(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			pruner, ok := cache.(storage.Pruner)
			if !ok {
				return errors.New("cache driver expires entries on its own")
			}
			n, err := pruner.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired entries\n", n)
			return nil
		},
	}
}
