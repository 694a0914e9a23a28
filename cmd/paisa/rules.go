package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"rule"},
		Short:   "Manage merchant categorization rules",
		Long: `Rules map merchant names to categories and take priority over
merchant history and keywords. User-defined rules are created
automatically by corrections, or explicitly here.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesDeactivateCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rules, err := store.GetActiveRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to get rules: %w", err)
			}
			if len(rules) == 0 {
				slog.Info("No active rules found")
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

			_, _ = fmt.Fprintln(w, "ID\tPATTERN\tREGEX\tCATEGORY\tCONFIDENCE\tUSER\tUSE COUNT")
			_, _ = fmt.Fprintln(w, "──\t───────\t─────\t────────\t──────────\t────\t─────────")
			for _, rule := range rules {
				user := ""
				if rule.IsUserDefined {
					user = "✓"
				}
				regex := ""
				if rule.IsRegex {
					regex = "✓"
				}
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\t%d\n",
					rule.ID, rule.MerchantPattern, regex, byID[rule.CategoryID],
					rule.Confidence, user, rule.UseCount)
			}
			return nil
		},
	}
}

func rulesAddCmd() *cobra.Command {
	var (
		category   string
		confidence float64
		isRegex    bool
	)

	cmd := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add a user-defined rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := store.GetCategoryByName(ctx, category)
			if err != nil {
				return fmt.Errorf("category %q: %w", category, err)
			}

			rule := &model.CategoryRule{
				MerchantPattern: args[0],
				CategoryID:      cat.ID,
				Confidence:      confidence,
				IsUserDefined:   true,
				IsRegex:         isRegex,
				IsActive:        true,
			}
			if err := store.SaveRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to save rule: %w", err)
			}

			slog.Info("Rule created",
				"id", rule.ID,
				"pattern", rule.MerchantPattern,
				"category", cat.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "target category name (required)")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.8, "rule confidence between 0 and 1")
	cmd.Flags().BoolVar(&isRegex, "regex", false, "treat the pattern as a regular expression")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func rulesDeactivateCmd() *cobra.Command {
	var ruleID int

	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate a rule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rules, err := store.GetActiveRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to get rules: %w", err)
			}
			for i := range rules {
				if rules[i].ID == ruleID {
					rules[i].IsActive = false
					if err := store.SaveRule(ctx, &rules[i]); err != nil {
						return fmt.Errorf("failed to deactivate rule: %w", err)
					}
					slog.Info("Rule deactivated", "id", ruleID)
					return nil
				}
			}
			return fmt.Errorf("no active rule with id %d", ruleID)
		},
	}

	cmd.Flags().IntVar(&ruleID, "id", 0, "rule id to deactivate (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
