package main

import (
	"fmt"
	"log/slog"

	"github.com/paisaflow/paisaflow/internal/engine"
	"github.com/spf13/cobra"
)

func learnCmd() *cobra.Command {
	var (
		transactionID string
		category      string
	)

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Correct a transaction's category",
		Long: `Record a category correction. The merchant's profile shifts toward
the corrected category and a user-defined rule is created or updated,
so future transactions from the same merchant categorize correctly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			txn, err := store.GetTransactionByID(ctx, transactionID)
			if err != nil {
				return fmt.Errorf("transaction %s: %w", transactionID, err)
			}

			cat, err := store.GetCategoryByName(ctx, category)
			if err != nil {
				return fmt.Errorf("category %q: %w", category, err)
			}

			eng := engine.New(store)
			if err := eng.Learn(ctx, *txn, cat.ID); err != nil {
				return fmt.Errorf("failed to record correction: %w", err)
			}

			// Re-categorize so the stored transaction reflects the
			// correction it just taught.
			categorization, err := eng.Categorize(ctx, *txn)
			if err != nil {
				return fmt.Errorf("failed to recategorize: %w", err)
			}
			applyCategorization(txn, categorization)
			if err := store.SaveTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			slog.Info("Correction recorded",
				"transaction", txn.ID,
				"merchant", txn.MerchantName,
				"category", categorization.Category.Name,
				"reason", categorization.Reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&transactionID, "transaction", "", "id of the transaction to correct (required)")
	cmd.Flags().StringVar(&category, "category", "", "corrected category name (required)")
	_ = cmd.MarkFlagRequired("transaction")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
