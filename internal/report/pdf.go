package report

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/signintech/gopdf"

	"github.com/cardsort-dev/cardsort/internal/model"
	"github.com/cardsort-dev/cardsort/internal/pipeline"
)

// ErrNoFont is returned when no TrueType font is available for the PDF.
var ErrNoFont = errors.New("no TrueType font found")

// FontCandidates are system fonts tried, in order, when no font is configured.
var FontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu-sans-fonts/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/liberation-sans/LiberationSans-Regular.ttf",
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	`C:\Windows\Fonts\arial.ttf`,
}

// FindFont returns configured when set, otherwise the first existing entry of
// FontCandidates. A configured path that does not exist is an error.
func FindFont(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrNoFont, configured, err)
		}
		return configured, nil
	}
	for _, p := range FontCandidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNoFont
}

const (
	fontFamily = "body"

	pageW    = 595.28
	margin   = 40.0
	pageBody = 800.0

	rowH = 14.0
)

var palette = [][3]uint8{
	{52, 152, 219},
	{231, 76, 60},
	{46, 204, 113},
	{241, 196, 15},
	{155, 89, 182},
	{230, 126, 34},
	{26, 188, 156},
	{149, 165, 166},
	{52, 73, 94},
	{236, 112, 99},
}

// WritePDF renders res to path: a summary page with the category table and a
// pie chart, then one section per category with a bar and trend chart and its
// transactions sorted by amount.
func WritePDF(path string, res *pipeline.Result, fontPath string) error {
	font, err := FindFont(fontPath)
	if err != nil {
		return err
	}

	r := &pdfReport{pdf: &gopdf.GoPdf{}}
	r.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := r.pdf.AddTTFFont(fontFamily, font); err != nil {
		return fmt.Errorf("loading font %s: %w", font, err)
	}

	r.summaryPage(res)
	for _, cat := range res.Categories() {
		r.categorySection(res, cat)
	}
	if r.err != nil {
		return fmt.Errorf("rendering pdf: %w", r.err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := r.pdf.WritePdf(path); err != nil {
		return fmt.Errorf("writing pdf %s: %w", path, err)
	}
	return nil
}

// pdfReport keeps the cursor and the first drawing error; once err is set
// every method is a no-op.
type pdfReport struct {
	pdf *gopdf.GoPdf
	y   float64
	err error
}

func (r *pdfReport) newPage() {
	r.pdf.AddPage()
	r.y = margin
}

// ensureRow starts a new page and redraws the table header when the next
// row would cross the bottom margin.
func (r *pdfReport) ensureRow(header func()) {
	if r.y+rowH <= pageBody {
		return
	}
	r.newPage()
	header()
}

func (r *pdfReport) font(size float64) {
	if r.err != nil {
		return
	}
	r.err = r.pdf.SetFont(fontFamily, "", size)
}

func (r *pdfReport) text(x, y float64, s string) {
	if r.err != nil {
		return
	}
	r.pdf.SetX(x)
	r.pdf.SetY(y)
	r.err = r.pdf.Cell(nil, s)
}

func (r *pdfReport) textRight(right, y float64, s string) {
	if r.err != nil {
		return
	}
	w, err := r.pdf.MeasureTextWidth(s)
	if err != nil {
		r.err = err
		return
	}
	r.text(right-w, y, s)
}

// clip shortens s with an ellipsis until it fits width.
func (r *pdfReport) clip(s string, width float64) string {
	if r.err != nil {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		candidate := string(runes)
		if len(runes) < len([]rune(s)) {
			candidate += "..."
		}
		w, err := r.pdf.MeasureTextWidth(candidate)
		if err != nil {
			r.err = err
			return s
		}
		if w <= width {
			return candidate
		}
		runes = runes[:len(runes)-1]
	}
	return ""
}

func (r *pdfReport) fill(c [3]uint8) {
	r.pdf.SetFillColor(c[0], c[1], c[2])
}

func (r *pdfReport) summaryPage(res *pipeline.Result) {
	r.newPage()

	r.pdf.SetTextColor(0, 0, 0)
	r.font(20)
	r.text(margin, r.y, "Card statement report")
	r.y += 28

	r.font(9)
	for _, src := range res.Sources {
		r.text(margin, r.y, filepath.Base(src))
		r.y += 12
	}
	r.text(margin, r.y, fmt.Sprintf("%d transactions totaling %s, %d refunds or credits ignored, %d installment lines merged",
		len(res.Rows), res.GrandTotal().Total.StringFixed(2), res.Dropped, res.Merged))
	r.y += 24

	if len(res.Summary) == 0 {
		r.font(12)
		r.text(margin, r.y, "No transactions.")
		return
	}

	// The pie sits right of the table on the first page, so draw it before
	// the table can break onto further pages.
	r.pie(res.Summary, 430, r.y+110, 95)
	r.summaryTable(res.Summary)
}

func (r *pdfReport) summaryTable(rows []model.CategorySummaryRow) {
	const (
		colCat   = margin + 14
		colTotal = margin + 220
		colShare = margin + 280
	)

	header := func() {
		r.font(10)
		r.text(colCat, r.y, "Category")
		r.textRight(colTotal, r.y, "Total")
		r.textRight(colShare, r.y, "Share")
		r.y += rowH + 2
		r.pdf.SetLineWidth(0.5)
		r.pdf.SetStrokeColor(120, 120, 120)
		r.pdf.Line(margin, r.y-4, colShare, r.y-4)
	}

	header()
	last := len(rows) - 1
	for i, row := range rows {
		if r.err != nil {
			return
		}
		r.ensureRow(header)
		if i == last {
			r.pdf.Line(margin, r.y-3, colShare, r.y-3)
		} else {
			r.fill(palette[i%len(palette)])
			r.pdf.RectFromUpperLeftWithStyle(margin, r.y+1, 9, 9, "F")
		}
		r.text(colCat, r.y, r.clip(row.Category, colTotal-colCat-70))
		r.textRight(colTotal, r.y, row.Total.StringFixed(2))
		r.textRight(colShare, r.y, row.Percentage.StringFixed(2)+"%")
		r.y += rowH
	}
}

// pie draws one slice per category (the trailing total row excluded).
func (r *pdfReport) pie(rows []model.CategorySummaryRow, cx, cy, radius float64) {
	grand := rows[len(rows)-1].Total.InexactFloat64()
	if grand <= 0 {
		return
	}

	start := -math.Pi / 2
	for i, row := range rows[:len(rows)-1] {
		sweep := row.Total.InexactFloat64() / grand * 2 * math.Pi
		if sweep <= 0 {
			continue
		}
		r.fill(palette[i%len(palette)])
		r.pdf.Polygon(slice(cx, cy, radius, start, sweep), "F")
		start += sweep
	}
}

// slice approximates a circular sector with a polygon.
func slice(cx, cy, radius, start, sweep float64) []gopdf.Point {
	steps := max(2, int(math.Ceil(sweep/(math.Pi/90))))
	pts := make([]gopdf.Point, 0, steps+2)
	pts = append(pts, gopdf.Point{X: cx, Y: cy})
	for i := 0; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		pts = append(pts, gopdf.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
	}
	return pts
}

func (r *pdfReport) categorySection(res *pipeline.Result, category string) {
	r.newPage()

	total := ""
	for _, row := range res.Summary {
		if row.Category == category {
			total = row.Total.StringFixed(2) + " (" + row.Percentage.StringFixed(2) + "%)"
			break
		}
	}
	r.pdf.SetTextColor(0, 0, 0)
	r.font(16)
	r.text(margin, r.y, category)
	r.font(10)
	r.textRight(pageW-margin, r.y+4, total)
	r.y += 28

	if trend, err := res.Trend(category); err == nil && len(trend.Points) > 0 {
		r.chart(trend, margin, r.y, pageW-2*margin, 170)
		r.y += 170 + 30
	}

	r.transactions(res.CategoryRows(category))
}

// chart draws the bucket amounts as bars with the fitted trend as a line.
func (r *pdfReport) chart(series model.TrendSeries, x0, y0, w, h float64) {
	hi := 0.0
	for _, p := range series.Points {
		hi = max(hi, p.Amount.InexactFloat64(), p.Trend)
	}
	if hi <= 0 {
		hi = 1
	}
	scale := func(v float64) float64 {
		v = math.Min(math.Max(v, 0), hi)
		return y0 + h - v/hi*h
	}

	r.pdf.SetLineWidth(0.5)
	r.pdf.SetStrokeColor(120, 120, 120)
	r.pdf.Line(x0, y0+h, x0+w, y0+h)
	r.pdf.Line(x0, y0, x0, y0+h)

	r.font(7)
	r.textRight(x0-3, y0-3, fmt.Sprintf("%.0f", hi))

	n := len(series.Points)
	slot := w / float64(n)
	barW := slot * 0.6
	every := int(math.Ceil(float64(n) / 12))

	r.fill(palette[0])
	for i, p := range series.Points {
		bx := x0 + float64(i)*slot + (slot-barW)/2
		top := scale(p.Amount.InexactFloat64())
		if top < y0+h {
			r.pdf.RectFromUpperLeftWithStyle(bx, top, barW, y0+h-top, "F")
		}
		if i%every == 0 {
			r.text(bx, y0+h+4, p.Label)
		}
	}

	if n < 2 {
		return
	}
	r.pdf.SetLineWidth(1.5)
	r.pdf.SetStrokeColor(palette[1][0], palette[1][1], palette[1][2])
	for i := 1; i < n; i++ {
		xa := x0 + (float64(i-1)+0.5)*slot
		xb := x0 + (float64(i)+0.5)*slot
		r.pdf.Line(xa, scale(series.Points[i-1].Trend), xb, scale(series.Points[i].Trend))
	}
}

func (r *pdfReport) transactions(rows []model.CategorizedTransaction) {
	const (
		colDate  = margin
		colTitle = margin + 75
	)
	colAmount := pageW - margin

	header := func() {
		r.font(9)
		r.text(colDate, r.y, "Date")
		r.text(colTitle, r.y, "Title")
		r.textRight(colAmount, r.y, "Amount")
		r.y += rowH
		r.pdf.SetLineWidth(0.5)
		r.pdf.SetStrokeColor(120, 120, 120)
		r.pdf.Line(margin, r.y-3, colAmount, r.y-3)
	}

	header()
	for _, row := range rows {
		if r.err != nil {
			return
		}
		r.ensureRow(header)
		r.text(colDate, r.y, row.Date.Format("2006-01-02"))
		r.text(colTitle, r.y, r.clip(strings.TrimSpace(row.Title), colAmount-colTitle-80))
		r.textRight(colAmount, r.y, row.Amount.StringFixed(2))
		r.y += rowH
	}
}
