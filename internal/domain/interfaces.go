package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// TextExtractor turns a source file into plain text. An empty string with a
// nil error means the file had no extractable text; callers skip such files.
type TextExtractor interface {
	ExtractText(path string) (string, error)
	Supports(path string) bool
}
