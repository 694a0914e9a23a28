package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/spf13/cobra"
)

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keywords",
		Aliases: []string{"keyword"},
		Short:   "Manage the keyword fallback dictionary",
		Long: `Keywords are the coarse fallback used when no rule or merchant
history matches: any merchant name containing the keyword suggests
the mapped category.`,
	}

	cmd.AddCommand(keywordsListCmd())
	cmd.AddCommand(keywordsAddCmd())

	return cmd
}

func keywordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List keyword mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			mappings, err := store.GetKeywordMappings(ctx)
			if err != nil {
				return fmt.Errorf("failed to get keyword mappings: %w", err)
			}

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			byID := make(map[int]string, len(categories))
			for _, cat := range categories {
				byID[cat.ID] = cat.Name
			}

			sort.Slice(mappings, func(i, j int) bool {
				return mappings[i].Keyword < mappings[j].Keyword
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			_, _ = fmt.Fprintln(w, "KEYWORD\tCATEGORY\tBUILT-IN")
			_, _ = fmt.Fprintln(w, "───────\t────────\t────────")
			for _, m := range mappings {
				builtin := ""
				if m.IsDefault {
					builtin = "✓"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", m.Keyword, byID[m.CategoryID], builtin)
			}
			return nil
		},
	}
}

func keywordsAddCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <keyword>",
		Short: "Add a keyword mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			keyword := strings.ToLower(strings.TrimSpace(args[0]))

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := store.GetCategoryByName(ctx, category)
			if err != nil {
				return fmt.Errorf("category %q: %w", category, err)
			}

			mapping := &model.KeywordMapping{Keyword: keyword, CategoryID: cat.ID}
			if err := store.SaveKeywordMapping(ctx, mapping); err != nil {
				return fmt.Errorf("failed to save keyword mapping: %w", err)
			}

			slog.Info("Keyword mapping saved", "keyword", keyword, "category", cat.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "target category name (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
