package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garrettladley/payconiq/internal/callback"
	"github.com/garrettladley/payconiq/internal/config"
	"github.com/garrettladley/payconiq/internal/storage"
	"github.com/garrettladley/payconiq/internal/xhttp"
)

func keysCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the published callback signing keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			cache, err := storage.Open(ctx, cfg.Cache)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer func() { _ = cache.Close() }()

			certificatesURL := cfg.Payconiq.Endpoints().Certificates
			if refresh {
				if err := cache.Delete(ctx, callback.KeySetCacheKey(certificatesURL)); err != nil {
					return fmt.Errorf("failed to drop cached key set: %w", err)
				}
			}

			keys := callback.NewKeySetCache(cache, xhttp.NewHTTPClient(
				xhttp.WithTimeout(cfg.Payconiq.Timeout),
				xhttp.WithConnectTimeout(cfg.Payconiq.ConnectTimeout),
			))
			set, err := keys.KeySet(ctx, certificatesURL)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KID\tTYPE\tALG")
			for i := range set.Len() {
				key, _ := set.Key(i)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key.KeyID(), key.KeyType(), key.Algorithm())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached key set")
	return cmd
}
