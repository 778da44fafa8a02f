package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardsort-dev/cardsort/internal/model"
)

// Parser converts a statement CSV into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers. dateFormats
// configures the generic parser; nil means DefaultDateFormats.
func DefaultRegistry(dateFormats []string) *Registry {
	r := NewRegistry()
	r.Register(NewGenericParser(dateFormats))
	return r
}

// LoadFile parses a single statement file.
func LoadFile(p Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileAccessError{Path: path, Err: errors.New("is a directory")}
	}

	txns, err := p.Parse(f)
	if err != nil {
		var merr *MalformedInputError
		if errors.As(err, &merr) {
			merr.File = path
			return nil, merr
		}
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return txns, nil
}

// LoadFiles parses every path and concatenates the rows in argument order.
// Rows are never deduplicated across files. The first failure aborts the batch.
func LoadFiles(p Parser, paths ...string) ([]model.Transaction, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}

	var all []model.Transaction
	for _, path := range paths {
		txns, err := LoadFile(p, path)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}

// Scan returns the CSV files directly inside dir, sorted by name.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FileAccessError{Path: dir, Err: err}
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// Expand replaces every directory in paths by the CSV files it contains.
// Plain file paths are kept as given, even if they do not exist; LoadFile
// reports those. Files found in a directory whose base name ends with
// skipSuffix (the suffix of organized output files) are not statements and
// are left out; an empty skipSuffix keeps every file.
func Expand(paths []string, skipSuffix string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := Scan(p)
		if err != nil {
			return nil, err
		}
		n := len(out)
		for _, f := range files {
			if skipSuffix != "" && strings.HasSuffix(strings.TrimSuffix(f.Name, filepath.Ext(f.Name)), skipSuffix) {
				continue
			}
			out = append(out, f.Path)
		}
		if len(out) == n {
			return nil, &FileAccessError{Path: p, Err: errors.New("no statement CSV files in directory")}
		}
	}
	return out, nil
}
