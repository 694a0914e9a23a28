package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage accounts used for account resolution",
		Long: `Managed accounts let the extractor bind a transaction to the right
account from the masked number tail banks include in their messages.`,
	}

	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsAddCmd())

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List managed accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			accounts, err := store.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}
			if len(accounts) == 0 {
				slog.Info("No accounts found. Use 'paisa accounts add' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			_, _ = fmt.Fprintln(w, "ID\tNAME\tNUMBER")
			_, _ = fmt.Fprintln(w, "──\t────\t──────")
			for _, acct := range accounts {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", acct.ID, acct.Name, acct.Number)
			}
			return nil
		},
	}
}

func accountsAddCmd() *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a managed account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			account := &model.Account{
				ID:     uuid.New().String(),
				Name:   args[0],
				Number: number,
			}
			if err := store.SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to save account: %w", err)
			}

			slog.Info("Account created", "id", account.ID, "name", account.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "account number; the tail is matched against SMS fragments (required)")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}
