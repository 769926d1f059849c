package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/payconiq/internal/client/payconiq"
	"github.com/garrettladley/payconiq/internal/config"
)

const maxConcurrentGets = 4

func paymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Create, inspect and cancel payments",
	}
	cmd.AddCommand(paymentCreateCmd())
	cmd.AddCommand(paymentGetCmd())
	cmd.AddCommand(paymentCancelCmd())
	cmd.AddCommand(paymentSearchCmd())
	cmd.AddCommand(paymentRefundIBANCmd())
	return cmd
}

func paymentCreateCmd() *cobra.Command {
	var (
		req    = payconiq.NewRequestPayment(0)
		amount int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request a new payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			req.Amount = amount
			payment, err := client.Payments.Request(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payment)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&amount, "amount", 0, "amount in euro cents")
	f.StringVar(&req.Currency, "currency", payconiq.DefaultCurrency, "ISO 4217 currency code")
	f.StringVar(&req.Description, "description", "", "description shown to the payer")
	f.StringVar(&req.Reference, "reference", "", "merchant reference (max 35 characters)")
	f.StringVar(&req.CallbackURL, "callback-url", "", "URL that receives status callbacks")
	f.StringVar(&req.ReturnURL, "return-url", "", "URL the payer returns to after the app flow")
	f.StringVar(&req.BulkID, "bulk-id", "", "bulk identifier")
	f.StringVar(&req.PosID, "pos-id", "", "point of sale for static QR payments")
	f.StringVar(&req.ShopID, "shop-id", "", "shop identifier")
	f.StringVar(&req.ShopName, "shop-name", "", "shop name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func paymentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <payment-id>...",
		Short: "Fetch one or more payments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			payments := make([]*payconiq.Payment, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentGets)
			for i, id := range args {
				g.Go(func() error {
					p, err := client.Payments.Get(ctx, id)
					if err != nil {
						return fmt.Errorf("payment %s: %w", id, err)
					}
					payments[i] = p
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if len(payments) == 1 {
				return printJSON(cmd.OutOrStdout(), payments[0])
			}
			return printJSON(cmd.OutOrStdout(), payments)
		},
	}
}

func paymentCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <payment-id>",
		Short: "Cancel a pending payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			if err := client.Payments.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payment %s cancelled\n", args[0])
			return nil
		},
	}
}

func paymentSearchCmd() *cobra.Command {
	var (
		from      time.Duration
		to        string
		statuses  []string
		reference string
		page      int
		size      int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search payments created in a time window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			search := payconiq.NewSearchPayments(time.Now().Add(-from))
			search.Reference = reference
			if to != "" {
				t, err := time.Parse(time.RFC3339, to)
				if err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				search.To = &t
			}
			for _, s := range statuses {
				search.PaymentStatuses = append(search.PaymentStatuses, payconiq.PaymentStatus(s))
			}

			result, err := client.Payments.Search(cmd.Context(), search, page, size)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.DurationVar(&from, "since", 24*time.Hour, "how far back the window starts")
	f.StringVar(&to, "to", "", "end of the window (RFC 3339)")
	f.StringSliceVar(&statuses, "status", nil, "payment statuses to include")
	f.StringVar(&reference, "reference", "", "merchant reference to match")
	f.IntVar(&page, "page", 0, "zero-based page number")
	f.IntVar(&size, "size", payconiq.DefaultSearchPageSize, "page size")
	return cmd
}

func paymentRefundIBANCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refund-iban <payment-id>",
		Short: "Show the debtor account a payment can be refunded to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			refund, err := client.Payments.RefundIBAN(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), refund)
		},
	}
}
