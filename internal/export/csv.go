package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardsort-dev/cardsort/internal/model"
)

// Header is the CSV header of an organized output file.
const Header = "date,title,amount,category"

// DefaultSuffix is appended to the input's base name to name the outputs.
const DefaultSuffix = "_organized"

const (
	numFields   = 4
	dateFormat  = "2006-01-02"
	colDate     = 0
	colTitle    = 1
	colAmount   = 2
	colCategory = 3
)

// WriteRows writes categorized rows (including header).
func WriteRows(w io.Writer, rows []model.CategorizedTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		if err := cw.Write(MarshalRow(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a categorized row to CSV fields. Amounts are written
// with at least two decimals and are never rounded: 45.9 becomes "45.90" and
// 10.005 stays "10.005".
func MarshalRow(r model.CategorizedTransaction) []string {
	row := make([]string, numFields)
	row[colDate] = r.Date.Format(dateFormat)
	row[colTitle] = r.Title
	row[colAmount] = r.Amount.StringFixed(max(2, -r.Amount.Exponent()))
	row[colCategory] = r.Category
	return row
}

// OutputPath derives an output file name from the input path: the input's
// base name plus suffix and ext, placed in dir (or beside the input when dir
// is empty). "stmts/jan.csv" -> "stmts/jan_organized.pdf".
func OutputPath(input, dir, suffix, ext string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+suffix+ext)
}

// WriteFile writes rows to path, creating parent directories.
func WriteFile(path string, rows []model.CategorizedTransaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteRows(f, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
