// Package chunker splits extracted document text into overlapping
// fixed-size word windows.
package chunker

import (
	"strings"

	"docgraph/internal/domain"
)

// Chunk splits text into windows of chunkSize words. Successive windows
// start max(1, chunkSize-overlap) words apart, so the function makes forward
// progress even when overlap >= chunkSize. The final window may be shorter
// than chunkSize. Empty or whitespace-only input yields no chunks.
func Chunk(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= chunkSize {
		return []string{strings.Join(words, " ")}
	}
	step := chunkSize - overlap
	if step < 1 {
		step = 1
	}
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// Split chunks a document's text and labels each window with its source
// file and sequence number.
func Split(doc domain.Document, chunkSize, overlap int) []domain.Chunk {
	parts := Chunk(doc.Text, chunkSize, overlap)
	chunks := make([]domain.Chunk, 0, len(parts))
	for i, p := range parts {
		chunks = append(chunks, domain.Chunk{
			SourceFile: doc.File,
			SourcePath: doc.Path,
			Text:       p,
			Sequence:   i,
		})
	}
	return chunks
}
