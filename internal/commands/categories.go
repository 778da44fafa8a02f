package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardsort-dev/cardsort/internal/categories"
	"github.com/cardsort-dev/cardsort/internal/model"
)

func newCategoriesCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect or create the category keyword table",
	}
	cmd.AddCommand(newCategoriesListCommand(g), newCategoriesInitCommand())
	return cmd
}

func newCategoriesListCommand(g *globalOptions) *cobra.Command {
	var categoriesFile string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories and keywords in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load()
			if err != nil {
				return err
			}
			if categoriesFile != "" {
				rt.cfg.CategoriesFile = categoriesFile
			}

			table := rt.categorizer().Table()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tKEYWORDS")
			for _, name := range table.Names() {
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(table.Keywords(name), ", "))
			}
			fmt.Fprintf(tw, "%s\t(no match)\n", model.CategoryOthers)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&categoriesFile, "categories", "", "categories file (YAML or JSON)")
	return cmd
}

func newCategoriesInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the built-in category table to a YAML file for editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := categories.Save(path, categories.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
