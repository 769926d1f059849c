package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/payconiq/internal/config"
	"github.com/garrettladley/payconiq/internal/qrcode"
)

type styleFlags struct {
	format string
	size   string
	color  string
}

func (s *styleFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.format, "format", string(qrcode.DefaultStyle.Format), "image format (PNG, SVG)")
	f.StringVar(&s.size, "size", string(qrcode.DefaultStyle.Size), "image size (S, M, L, XL)")
	f.StringVar(&s.color, "color", string(qrcode.DefaultStyle.Color), "image color (magenta, black)")
}

func (s *styleFlags) options() []qrcode.Option {
	return []qrcode.Option{
		qrcode.WithFormat(qrcode.Format(s.format)),
		qrcode.WithSize(qrcode.Size(s.size)),
		qrcode.WithColor(qrcode.Color(s.color)),
	}
}

func qrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Build QR code image links",
	}
	cmd.AddCommand(qrStaticCmd())
	cmd.AddCommand(qrMetadataCmd())
	cmd.AddCommand(qrCustomizeCmd())
	return cmd
}

func generator() (qrcode.Generator, config.Config, error) {
	cfg, err := config.Read()
	if err != nil {
		return qrcode.Generator{}, config.Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return qrcode.NewGenerator(cfg.Payconiq.Endpoints().QRPortal), cfg, nil
}

func qrStaticCmd() *cobra.Command {
	var style styleFlags

	cmd := &cobra.Command{
		Use:   "static <pos-id>",
		Short: "Link to the sticker QR code of a point of sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, cfg, err := generator()
			if err != nil {
				return err
			}
			link, err := gen.Static(cfg.Payconiq.ProfileID, args[0], style.options()...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	style.register(cmd)
	return cmd
}

func qrMetadataCmd() *cobra.Command {
	var (
		style       styleFlags
		description string
		amount      int64
		reference   string
	)

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Link to a QR code that pre-fills payment details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, cfg, err := generator()
			if err != nil {
				return err
			}
			link, err := gen.WithMetadata(cfg.Payconiq.ProfileID, description, amount, reference, style.options()...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&description, "description", "", "description shown to the payer")
	f.Int64Var(&amount, "amount", 0, "amount in euro cents")
	f.StringVar(&reference, "reference", "", "merchant reference")
	style.register(cmd)
	return cmd
}

func qrCustomizeCmd() *cobra.Command {
	var style styleFlags

	cmd := &cobra.Command{
		Use:   "customize <link>",
		Short: "Restyle a QR code link returned by the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := qrcode.Customize(args[0], qrcode.Format(style.format), qrcode.Size(style.size), qrcode.Color(style.color))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	style.register(cmd)
	return cmd
}
