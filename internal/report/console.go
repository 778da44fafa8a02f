// Package report renders pipeline results: terminal tables, XLSX workbooks
// and PDF reports.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/cardsort-dev/cardsort/internal/model"
	"github.com/cardsort-dev/cardsort/internal/pipeline"
)

var headerColor = color.New(color.Bold, color.FgCyan)

// PrintSummary writes the category summary table to w.
func PrintSummary(w io.Writer, res *pipeline.Result) error {
	headerColor.Fprintf(w, "Spending by category (%d transactions, total %s)\n",
		len(res.Rows), res.GrandTotal().Total.StringFixed(2))
	if len(res.Summary) == 0 {
		_, err := fmt.Fprintln(w, "no transactions")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CATEGORY\tTOTAL\tSHARE\t")
	last := len(res.Summary) - 1
	for i, row := range res.Summary {
		// Spacer before the total; tabwriter miscounts color escape codes.
		if i == last {
			fmt.Fprintln(tw, "\t\t\t")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%%\t\n", row.Category, row.Total.StringFixed(2), row.Percentage.StringFixed(2))
	}
	return tw.Flush()
}

// PrintStores writes the store ranking table to w.
func PrintStores(w io.Writer, res *pipeline.Result) error {
	headerColor.Fprintln(w, "Top stores")
	if len(res.Stores) == 0 {
		_, err := fmt.Fprintln(w, "no transactions")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tSTORE\tTOTAL\t")
	for i, row := range res.Stores {
		rank := fmt.Sprint(i + 1)
		if row.Title == model.StoreOthers && i == len(res.Stores)-1 {
			rank = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", rank, row.Title, row.Total.StringFixed(2))
	}
	return tw.Flush()
}
