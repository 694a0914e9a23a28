package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/paisaflow/paisaflow/internal/service"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	var (
		merchant string
		since    string
		until    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "List recorded transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{Merchant: merchant, Limit: limit}
			if since != "" {
				start, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since value: %w", err)
				}
				filter.StartDate = &start
			}
			if until != "" {
				end, err := time.Parse("2006-01-02", until)
				if err != nil {
					return fmt.Errorf("invalid --until value: %w", err)
				}
				filter.EndDate = &end
			}

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			txns, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}
			if len(txns) == 0 {
				slog.Info("No transactions found")
				return nil
			}

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			byID := make(map[int]string, len(categories))
			for _, cat := range categories {
				byID[cat.ID] = cat.Name
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			_, _ = fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tDIRECTION\tMERCHANT\tCATEGORY\tREASON")
			_, _ = fmt.Fprintln(w, "──\t────\t──────\t─────────\t────────\t────────\t──────")
			for _, txn := range txns {
				category := ""
				if txn.CategoryID != nil {
					category = byID[*txn.CategoryID]
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.ID,
					txn.Date.Format("2006-01-02"),
					txn.Amount.StringFixed(2),
					txn.Direction,
					txn.MerchantName,
					category,
					txn.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&merchant, "merchant", "", "filter by exact merchant name")
	cmd.Flags().StringVar(&since, "since", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "latest date to include (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of transactions to show")

	return cmd
}
