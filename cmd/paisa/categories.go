package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage spending categories",
		Long:    `List and add the spending categories transactions are filed under.`,
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

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

			_, _ = fmt.Fprintln(w, "ID\tNAME\tICON\tPARENT\tDEFAULT")
			_, _ = fmt.Fprintln(w, "──\t────\t────\t──────\t───────")
			for _, cat := range categories {
				parent := ""
				if cat.ParentID != nil {
					parent = byID[*cat.ParentID]
				}
				def := ""
				if cat.IsDefault {
					def = "✓"
				}
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					cat.ID, cat.Name, cat.Icon, parent, def)
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var (
		icon   string
		color  string
		parent string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			store, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := store.GetCategoryByName(ctx, name); err == nil {
				return fmt.Errorf("category %q already exists", name)
			} else if !errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("failed to check existing category: %w", err)
			}

			category := &model.Category{Name: name, Icon: icon, Color: color}
			if parent != "" {
				parentCat, err := store.GetCategoryByName(ctx, parent)
				if err != nil {
					return fmt.Errorf("parent category %q: %w", parent, err)
				}
				category.ParentID = &parentCat.ID
			}

			created, err := store.CreateCategory(ctx, category)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			slog.Info("Category created", "id", created.ID, "name", created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon shown next to the category")
	cmd.Flags().StringVar(&color, "color", "", "hex display color")
	cmd.Flags().StringVar(&parent, "parent", "", "name of the parent category")

	return cmd
}
