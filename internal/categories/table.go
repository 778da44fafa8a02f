package categories

import (
	"errors"
	"fmt"
	"strings"
)

// Entry is one category and the keywords that select it.
type Entry struct {
	Name     string
	Keywords []string
}

// Table is an ordered keyword table. Declaration order is the match order:
// the first entry with a keyword contained in a title wins.
type Table struct {
	entries []Entry
	byName  map[string]int
}

// New validates entries and builds a Table. Keywords are lower-cased and
// trimmed; blank keywords are dropped so they cannot match every title.
func New(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.New("keyword table has no categories")
	}

	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, errors.New("category with empty name")
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}

		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}

		t.byName[name] = len(t.entries)
		t.entries = append(t.entries, Entry{Name: name, Keywords: kws})
	}
	return t, nil
}

// MustNew is New that panics on error. For static tables only.
func MustNew(entries []Entry) *Table {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Entries returns a copy of the entries in match order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Name: e.Name, Keywords: append([]string(nil), e.Keywords...)}
	}
	return out
}

// Names returns the category names in match order.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Has reports whether name is a declared category.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Keywords returns the keywords of a category, or nil.
func (t *Table) Keywords(name string) []string {
	i, ok := t.byName[name]
	if !ok {
		return nil
	}
	return append([]string(nil), t.entries[i].Keywords...)
}

// Len returns the number of categories.
func (t *Table) Len() int { return len(t.entries) }
