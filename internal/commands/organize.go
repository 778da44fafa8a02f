package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardsort-dev/cardsort/internal/export"
	"github.com/cardsort-dev/cardsort/internal/report"
)

type organizeOptions struct {
	categories string
	output     string
	outDir     string
	bucket     string
	merge      bool
	top        int
	only       []string
	noPDF      bool
	xlsx       bool
}

func newOrganizeCommand(g *globalOptions) *cobra.Command {
	o := &organizeOptions{}

	cmd := &cobra.Command{
		Use:   "organize <statement.csv|dir>...",
		Short: "Categorize statements and write the organized CSV and reports",
		Long: `Categorize one or more statement CSV files as a single batch.

Writes <name>_organized.csv and <name>_organized.pdf next to the first input
(or in --out-dir), optionally an .xlsx workbook, and prints the category
summary. Directories are expanded to the CSV files they contain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load()
			if err != nil {
				return err
			}
			o.apply(cmd, rt)
			return runOrganize(cmd, rt, o, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.categories, "categories", "", "categories file (YAML or JSON)")
	f.StringVarP(&o.output, "output", "o", "", "organized CSV path (reports use the same name)")
	f.StringVar(&o.outDir, "out-dir", "", "directory for output files (default: beside the first input)")
	f.StringVar(&o.bucket, "bucket", "", "trend bucket: day or month (default: month for several files)")
	f.BoolVar(&o.merge, "merge-installments", false, `merge "Parcela n/m" lines into one purchase`)
	f.IntVar(&o.top, "top", 0, "stores listed before \"Others\"")
	f.StringArrayVar(&o.only, "only", nil, "export only this category (repeatable)")
	f.BoolVar(&o.noPDF, "no-pdf", false, "skip the PDF report")
	f.BoolVar(&o.xlsx, "xlsx", false, "also write an XLSX workbook")

	return cmd
}

// apply overrides config values with the flags the user set.
func (o *organizeOptions) apply(cmd *cobra.Command, rt *runtime) {
	cfg := rt.cfg
	if o.categories != "" {
		cfg.CategoriesFile = o.categories
	}
	if o.outDir != "" {
		cfg.Output.Dir = o.outDir
	}
	if o.bucket != "" {
		cfg.Report.Bucket = o.bucket
	}
	if cmd.Flags().Changed("merge-installments") {
		cfg.Installments.Merge = o.merge
	}
	if cmd.Flags().Changed("top") {
		cfg.Report.TopStores = o.top
	}
	if o.noPDF {
		cfg.Output.PDF = false
	}
	if o.xlsx {
		cfg.Output.XLSX = true
	}
}

// outputPath names an artifact after --output when given, else after the
// first input.
func (o *organizeOptions) outputPath(rt *runtime, firstInput, ext string) string {
	if o.output != "" {
		return strings.TrimSuffix(o.output, filepath.Ext(o.output)) + ext
	}
	return export.OutputPath(firstInput, rt.cfg.Output.Dir, rt.cfg.Output.Suffix, ext)
}

func runOrganize(cmd *cobra.Command, rt *runtime, o *organizeOptions, args []string) error {
	res, err := rt.run(args, o.only)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	first := res.Sources[0]

	csvPath := o.outputPath(rt, first, ".csv")
	if o.output != "" {
		csvPath = o.output
	}
	if err := export.WriteFile(csvPath, res.Rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (%d rows)\n", csvPath, len(res.Rows))

	if rt.cfg.Output.PDF {
		pdfPath := o.outputPath(rt, first, ".pdf")
		switch err := report.WritePDF(pdfPath, res, rt.cfg.Report.FontPath); {
		case errors.Is(err, report.ErrNoFont):
			rt.log.Warn().Err(err).Msg("skipping PDF report; set report.font_path or CARDSORT_FONT")
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "Wrote %s\n", pdfPath)
		}
	}

	if rt.cfg.Output.XLSX {
		xlsxPath := o.outputPath(rt, first, ".xlsx")
		if err := report.WriteXLSX(xlsxPath, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", xlsxPath)
	}

	fmt.Fprintln(out)
	return report.PrintSummary(out, res)
}
