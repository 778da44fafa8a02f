package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsort-dev/cardsort/internal/model"
)

// Required column names of a statement export.
const (
	ColDate   = "date"
	ColTitle  = "title"
	ColAmount = "amount"
)

// DefaultDateFormats are tried in order when no layouts are configured.
var DefaultDateFormats = []string{"2006-01-02", "02/01/2006"}

const utf8BOM = "\ufeff"

var errMissingColumn = errors.New("required column missing")

// GenericParser parses exports with a header row naming date, title and amount.
// Column order is free and extra columns are ignored.
type GenericParser struct {
	DateFormats []string
}

// NewGenericParser returns a parser using layouts, or DefaultDateFormats if empty.
func NewGenericParser(layouts []string) *GenericParser {
	if len(layouts) == 0 {
		layouts = DefaultDateFormats
	}
	return &GenericParser{DateFormats: layouts}
}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a CSV export and returns its transactions in file order. Row
// numbers in errors are file line numbers, so a quoted field spanning several
// lines does not shift later rows.
func (p *GenericParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedInputError{Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, readError(err)
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		if isBlank(rec) {
			continue
		}
		txn, merr := p.parseRow(rec, cols)
		if merr != nil {
			merr.Row, _ = cr.FieldPos(0)
			return nil, merr
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func readError(err error) *MalformedInputError {
	merr := &MalformedInputError{Err: fmt.Errorf("reading CSV: %w", err)}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		merr.Row = perr.StartLine
	}
	return merr
}

type columns struct {
	date, title, amount int
}

func (c columns) max() int {
	return max(c.date, c.title, c.amount)
}

func locateColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var cols columns
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{ColDate, &cols.date},
		{ColTitle, &cols.title},
		{ColAmount, &cols.amount},
	} {
		i, ok := idx[c.name]
		if !ok {
			return columns{}, &MalformedInputError{Row: 1, Column: c.name, Err: errMissingColumn}
		}
		*c.dst = i
	}
	return cols, nil
}

func (p *GenericParser) parseRow(rec []string, cols columns) (model.Transaction, *MalformedInputError) {
	if len(rec) <= cols.max() {
		return model.Transaction{}, &MalformedInputError{
			Err: fmt.Errorf("expected at least %d fields, got %d", cols.max()+1, len(rec)),
		}
	}

	rawDate := strings.TrimSpace(rec[cols.date])
	date, err := p.parseDate(rawDate)
	if err != nil {
		return model.Transaction{}, &MalformedInputError{Column: ColDate, Value: rawDate, Err: err}
	}

	rawAmount := strings.TrimSpace(rec[cols.amount])
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return model.Transaction{}, &MalformedInputError{Column: ColAmount, Value: rawAmount, Err: err}
	}

	return model.Transaction{
		Date:   date,
		Title:  strings.TrimSpace(rec[cols.title]),
		Amount: amount,
	}, nil
}

func (p *GenericParser) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range p.DateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout of %v matches", p.DateFormats)
}

// ParseAmount parses a signed decimal amount. A lone comma is read as the
// decimal separator ("12,50" == "12.50").
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount: %w", err)
	}
	return d, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
