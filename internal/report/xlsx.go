package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cardsort-dev/cardsort/internal/pipeline"
)

// Workbook sheet names.
const (
	SheetSummary      = "Summary"
	SheetStores       = "Stores"
	SheetTransactions = "Transactions"
)

// Built-in number format 4 is "#,##0.00"; 14 is the locale short date.
const (
	numFmtAmount = 4
	numFmtDate   = 14
)

// WriteXLSX writes res as a workbook with Summary, Stores and Transactions
// sheets.
func WriteXLSX(path string, res *pipeline.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	w, err := newSheetWriter(f)
	if err != nil {
		return err
	}

	f.SetSheetName("Sheet1", SheetSummary)
	if err := w.summary(res); err != nil {
		return fmt.Errorf("writing %s sheet: %w", SheetSummary, err)
	}

	if _, err := f.NewSheet(SheetStores); err != nil {
		return fmt.Errorf("creating %s sheet: %w", SheetStores, err)
	}
	if err := w.stores(res); err != nil {
		return fmt.Errorf("writing %s sheet: %w", SheetStores, err)
	}

	if _, err := f.NewSheet(SheetTransactions); err != nil {
		return fmt.Errorf("creating %s sheet: %w", SheetTransactions, err)
	}
	if err := w.transactions(res); err != nil {
		return fmt.Errorf("writing %s sheet: %w", SheetTransactions, err)
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

type sheetWriter struct {
	f                          *excelize.File
	header, amount, date, bold int
}

func newSheetWriter(f *excelize.File) (*sheetWriter, error) {
	w := &sheetWriter{f: f}
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&w.header, &excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#34495E"}, Pattern: 1},
		}},
		{&w.amount, &excelize.Style{NumFmt: numFmtAmount}},
		{&w.date, &excelize.Style{NumFmt: numFmtDate}},
		{&w.bold, &excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtAmount}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			return nil, fmt.Errorf("creating style: %w", err)
		}
		*s.dst = id
	}
	return w, nil
}

func (w *sheetWriter) headerRow(sheet string, cols ...any) error {
	if err := w.f.SetSheetRow(sheet, "A1", &cols); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", last, w.header)
}

func (w *sheetWriter) styleCell(sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, cell, cell, style)
}

func (w *sheetWriter) summary(res *pipeline.Result) error {
	const sheet = SheetSummary
	if err := w.headerRow(sheet, "Category", "Total", "Percentage"); err != nil {
		return err
	}
	last := len(res.Summary) - 1
	for i, row := range res.Summary {
		r := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, r)
		values := []any{row.Category, row.Total.InexactFloat64(), row.Percentage.InexactFloat64()}
		if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		style := w.amount
		if i == last {
			style = w.bold
		}
		if err := w.styleCell(sheet, 2, r, style); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(sheet, "A", "A", 24)
}

func (w *sheetWriter) stores(res *pipeline.Result) error {
	const sheet = SheetStores
	if err := w.headerRow(sheet, "Rank", "Store", "Total"); err != nil {
		return err
	}
	for i, row := range res.Stores {
		r := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, r)
		values := []any{i + 1, row.Title, row.Total.InexactFloat64()}
		if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if err := w.styleCell(sheet, 3, r, w.amount); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(sheet, "B", "B", 40)
}

func (w *sheetWriter) transactions(res *pipeline.Result) error {
	const sheet = SheetTransactions
	if err := w.headerRow(sheet, "Date", "Title", "Amount", "Category"); err != nil {
		return err
	}
	for i, row := range res.Rows {
		r := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, r)
		values := []any{row.Date, row.Title, row.Amount.InexactFloat64(), row.Category}
		if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if err := w.styleCell(sheet, 1, r, w.date); err != nil {
			return err
		}
		if err := w.styleCell(sheet, 3, r, w.amount); err != nil {
			return err
		}
	}
	if err := w.f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	return w.f.SetColWidth(sheet, "B", "B", 40)
}
