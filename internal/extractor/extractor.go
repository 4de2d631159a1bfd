// Package extractor turns source files into plain text. Per-format parsing
// is a boundary concern: the registry dispatches on file extension and
// unsupported formats are simply skipped by callers.
package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docgraph/internal/domain"
)

// PlainText reads UTF-8 text formats directly.
type PlainText struct {
	extensions map[string]struct{}
}

// NewPlainText creates an extractor for the given extensions (with leading
// dots). Defaults to .txt, .md, .log, .csv when none are given.
func NewPlainText(extensions ...string) *PlainText {
	if len(extensions) == 0 {
		extensions = []string{".txt", ".md", ".log", ".csv"}
	}
	m := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		m[strings.ToLower(e)] = struct{}{}
	}
	return &PlainText{extensions: m}
}

// Supports reports whether the file extension is handled.
func (p *PlainText) Supports(path string) bool {
	_, ok := p.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ExtractText reads the file. Binary content yields an empty string rather
// than garbage text.
func (p *PlainText) ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", nil
	}
	return string(data), nil
}

// Registry dispatches extraction across multiple extractors, first match
// wins.
type Registry struct {
	extractors []domain.TextExtractor
}

// NewRegistry creates a registry over the given extractors.
func NewRegistry(extractors ...domain.TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// Supports reports whether any registered extractor handles the file.
func (r *Registry) Supports(path string) bool {
	for _, e := range r.extractors {
		if e.Supports(path) {
			return true
		}
	}
	return false
}

// ExtractText extracts with the first extractor that supports the file.
// Unsupported files yield an empty string with no error.
func (r *Registry) ExtractText(path string) (string, error) {
	for _, e := range r.extractors {
		if e.Supports(path) {
			return e.ExtractText(path)
		}
	}
	return "", nil
}
