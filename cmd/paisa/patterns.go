package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/registry"
	"github.com/spf13/cobra"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patterns",
		Aliases: []string{"pattern"},
		Short:   "Manage bank message patterns",
		Long: `Bank patterns describe how each bank formats its SMS notifications:
which senders it uses and how to pull the amount, merchant, date,
direction and account out of the message body. Supporting a new bank
is a matter of adding a pattern, not writing code.`,
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsShowCmd())
	cmd.AddCommand(patternsAddCmd())
	cmd.AddCommand(patternsDeactivateCmd())

	return cmd
}

func patternsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered bank patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			reg, err := loadRegistry(ctx, store)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			_, _ = fmt.Fprintln(w, "BANK\tSENDER PATTERN\tDATE LAYOUTS\tACTIVE")
			_, _ = fmt.Fprintln(w, "────\t──────────────\t────────────\t──────")
			for _, pattern := range reg.All() {
				active := ""
				if pattern.IsActive {
					active = "✓"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					pattern.BankName, pattern.SenderPattern,
					strings.Join(pattern.DateLayouts, ", "), active)
			}
			return nil
		},
	}
}

func patternsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <bank>",
		Short: "Show the full pattern for one bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			reg, err := loadRegistry(ctx, store)
			if err != nil {
				return err
			}

			pattern, err := reg.Get(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			_, _ = fmt.Fprintf(w, "Bank:\t%s\n", pattern.BankName)
			_, _ = fmt.Fprintf(w, "Sender:\t%s\n", pattern.SenderPattern)
			_, _ = fmt.Fprintf(w, "Amount:\t%s\n", pattern.AmountPattern)
			_, _ = fmt.Fprintf(w, "Merchant:\t%s\n", pattern.MerchantPattern)
			_, _ = fmt.Fprintf(w, "Date:\t%s\n", pattern.DatePattern)
			_, _ = fmt.Fprintf(w, "Type:\t%s\n", pattern.TypePattern)
			_, _ = fmt.Fprintf(w, "Account:\t%s\n", pattern.AccountPattern)
			_, _ = fmt.Fprintf(w, "Layouts:\t%s\n", strings.Join(pattern.DateLayouts, ", "))
			_, _ = fmt.Fprintf(w, "Active:\t%v\n", pattern.IsActive)
			return nil
		},
	}
}

func patternsAddCmd() *cobra.Command {
	var pattern model.BankPattern
	var layouts []string

	cmd := &cobra.Command{
		Use:   "add <bank>",
		Short: "Add or replace a bank pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pattern.BankName = args[0]
			pattern.DateLayouts = layouts
			pattern.IsActive = true

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// Registering first validates and compiles every regex
			// before anything is persisted.
			reg := registry.New()
			if err := reg.Register(pattern); err != nil {
				return err
			}

			if err := store.SaveBankPattern(ctx, &pattern); err != nil {
				return fmt.Errorf("failed to save bank pattern: %w", err)
			}

			slog.Info("Bank pattern saved", "bank", pattern.BankName)
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern.SenderPattern, "sender", "", "regex matching the bank's sender ids (required)")
	cmd.Flags().StringVar(&pattern.AmountPattern, "amount", "", "regex capturing the amount")
	cmd.Flags().StringVar(&pattern.MerchantPattern, "merchant", "", "regex capturing the merchant name")
	cmd.Flags().StringVar(&pattern.DatePattern, "date", "", "regex capturing the transaction date")
	cmd.Flags().StringVar(&pattern.TypePattern, "type", "", "regex capturing the direction keyword")
	cmd.Flags().StringVar(&pattern.AccountPattern, "account", "", "regex capturing the account number tail")
	cmd.Flags().StringSliceVar(&layouts, "layout", nil, "date layouts in Go reference time format")
	_ = cmd.MarkFlagRequired("sender")

	return cmd
}

func patternsDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <bank>",
		Short: "Deactivate a bank pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bank := args[0]

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// Built-in patterns have no stored row yet; persist one so
			// the deactivation survives restarts.
			reg, err := loadRegistry(ctx, store)
			if err != nil {
				return err
			}
			pattern, err := reg.Get(bank)
			if err != nil {
				return err
			}

			pattern.IsActive = false
			if err := store.SaveBankPattern(ctx, &pattern); err != nil {
				return fmt.Errorf("failed to deactivate bank pattern: %w", err)
			}

			slog.Info("Bank pattern deactivated", "bank", bank)
			return nil
		},
	}
}
