package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garrettladley/payconiq/internal/callback"
	"github.com/garrettladley/payconiq/internal/config"
	"github.com/garrettladley/payconiq/internal/storage"
	"github.com/garrettladley/payconiq/internal/xhttp"
	"github.com/garrettladley/payconiq/internal/xslog"
)

func verifyCmd() *cobra.Command {
	var (
		token       string
		payloadFile string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the signature of a captured callback",
		Long:  "Checks a detached JWS from the Signature header against the callback body and the published signing keys.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			if cfg.Payconiq.ProfileID == "" {
				return errors.New("PAYCONIQ_PROFILE_ID is required")
			}

			var payload []byte
			if payloadFile != "" {
				payload, err = os.ReadFile(payloadFile)
				if err != nil {
					return fmt.Errorf("failed to read payload: %w", err)
				}
			}

			cache, err := storage.Open(ctx, cfg.Cache)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer func() { _ = cache.Close() }()

			verifier := callback.NewVerifier(cfg.Payconiq.ProfileID, cfg.Payconiq.Endpoints().Certificates,
				callback.WithProduction(false),
				callback.WithCache(cache),
				callback.WithHTTPClient(xhttp.NewHTTPClient(
					xhttp.WithTimeout(cfg.Payconiq.Timeout),
					xhttp.WithConnectTimeout(cfg.Payconiq.ConnectTimeout),
				)),
				callback.WithLogger(xslog.NewLoggerFromEnv(os.Stderr)),
			)

			verified, err := verifier.Verify(ctx, token, payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), verified.Header)
		},
	}

	f := cmd.Flags()
	f.StringVar(&token, "token", "", "compact JWS from the Signature header")
	f.StringVar(&payloadFile, "payload-file", "", "file holding the raw callback body")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
