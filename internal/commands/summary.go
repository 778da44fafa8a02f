package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardsort-dev/cardsort/internal/report"
)

func newSummaryCommand(g *globalOptions) *cobra.Command {
	var categoriesFile string
	var merge bool
	var top int

	cmd := &cobra.Command{
		Use:   "summary <statement.csv|dir>...",
		Short: "Print category totals and top stores without writing files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load()
			if err != nil {
				return err
			}
			if categoriesFile != "" {
				rt.cfg.CategoriesFile = categoriesFile
			}
			if cmd.Flags().Changed("merge-installments") {
				rt.cfg.Installments.Merge = merge
			}
			if cmd.Flags().Changed("top") {
				rt.cfg.Report.TopStores = top
			}

			res, err := rt.run(args, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.PrintSummary(out, res); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return report.PrintStores(out, res)
		},
	}

	cmd.Flags().StringVar(&categoriesFile, "categories", "", "categories file (YAML or JSON)")
	cmd.Flags().BoolVar(&merge, "merge-installments", false, `merge "Parcela n/m" lines into one purchase`)
	cmd.Flags().IntVar(&top, "top", 0, "stores listed before \"Others\"")

	return cmd
}
