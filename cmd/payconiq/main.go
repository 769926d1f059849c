package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	go_json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/payconiq/internal/client/payconiq"
	"github.com/garrettladley/payconiq/internal/config"
	"github.com/garrettladley/payconiq/internal/version"
	"github.com/garrettladley/payconiq/internal/xslog"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "payconiq",
		Short:        "Payconiq merchant API from your terminal",
		Version:      version.Get(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(paymentCmd())
	rootCmd.AddCommand(qrCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(keysCmd())
	rootCmd.AddCommand(cacheCmd())

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

func newClient(cfg config.Config) (*payconiq.Client, error) {
	if cfg.Payconiq.APIKey == "" {
		return nil, errors.New("PAYCONIQ_API_KEY is required")
	}
	return payconiq.New(cfg.Payconiq.APIKey,
		payconiq.WithEndpoints(cfg.Payconiq.Env, cfg.Payconiq.LegacyEndpoints),
		payconiq.WithTimeout(cfg.Payconiq.Timeout),
		payconiq.WithConnectTimeout(cfg.Payconiq.ConnectTimeout),
		payconiq.WithLogger(xslog.NewLoggerFromEnv(os.Stderr)),
	), nil
}

func printJSON(w io.Writer, v any) error {
	b, err := go_json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
