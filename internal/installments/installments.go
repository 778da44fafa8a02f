// Package installments collapses card charges split into monthly installment
// lines ("Store X Parcela 2/3") back into one logical purchase.
package installments

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cardsort-dev/cardsort/internal/model"
)

// DefaultMarker is the installment keyword used by Brazilian card issuers.
const DefaultMarker = "parcela"

// Installment is the parsed form of an installment title.
type Installment struct {
	Base    string // title text before the marker, trimmed
	Current int
	Total   int
}

// Merger detects and merges installment rows. The zero value uses DefaultMarker.
type Merger struct {
	markers []string
}

// NewMerger returns a Merger recognizing any of markers, compared
// case-insensitively. Blank markers are ignored; no usable marker means
// DefaultMarker.
func NewMerger(markers []string) *Merger {
	m := &Merger{}
	for _, mk := range markers {
		mk = strings.TrimSpace(mk)
		if mk != "" {
			m.markers = append(m.markers, mk)
		}
	}
	return m
}

func (m *Merger) active() []string {
	if m == nil || len(m.markers) == 0 {
		return []string{DefaultMarker}
	}
	return m.markers
}

// Parse reports whether title is an installment line and splits it.
//
// An installment title is: a non-empty base, whitespace, a marker, whitespace,
// then "current/total" as positive integers, then optional whitespace. When
// the marker occurs more than once, the last occurrence is used.
func (m *Merger) Parse(title string) (Installment, bool) {
	for _, marker := range m.active() {
		if inst, ok := parseWith(title, marker); ok {
			return inst, true
		}
	}
	return Installment{}, false
}

func parseWith(title, marker string) (Installment, bool) {
	n := len(marker)
	for i := len(title) - n; i > 0; i-- {
		if !strings.EqualFold(title[i:i+n], marker) {
			continue
		}
		prev, _ := utf8.DecodeLastRuneInString(title[:i])
		if !unicode.IsSpace(prev) {
			continue
		}
		cur, total, ok := parseCounter(title[i+n:])
		if !ok {
			continue
		}
		base := strings.TrimSpace(title[:i])
		if base == "" {
			return Installment{}, false
		}
		return Installment{Base: base, Current: cur, Total: total}, true
	}
	return Installment{}, false
}

// parseCounter accepts `\s+\d+/\d+\s*`.
func parseCounter(s string) (cur, total int, ok bool) {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(rest) == len(s) {
		return 0, 0, false
	}
	rest = strings.TrimRightFunc(rest, unicode.IsSpace)

	left, right, found := strings.Cut(rest, "/")
	if !found {
		return 0, 0, false
	}
	cur, ok = positiveInt(left)
	if !ok {
		return 0, 0, false
	}
	total, ok = positiveInt(right)
	if !ok {
		return 0, 0, false
	}
	return cur, total, true
}

func positiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Merge groups installment rows by base title. Each group becomes one row
// titled with the base, dated at the group's earliest date, with the summed
// amount. Other rows pass through unchanged. Output follows input order, a
// group taking the position of its first member. The total amount is conserved.
func (m *Merger) Merge(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	groups := make(map[string]int)

	for _, t := range txns {
		inst, ok := m.Parse(t.Title)
		if !ok {
			out = append(out, t)
			continue
		}

		if i, seen := groups[inst.Base]; seen {
			g := &out[i]
			g.Amount = g.Amount.Add(t.Amount)
			if t.Date.Before(g.Date) {
				g.Date = t.Date
			}
			continue
		}

		groups[inst.Base] = len(out)
		out = append(out, model.Transaction{
			Date:   t.Date,
			Title:  inst.Base,
			Amount: t.Amount,
		})
	}
	return out
}
