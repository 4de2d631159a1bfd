// Package service wires the chunking, embedding, extraction, and graph
// engines into the two per-corpus build passes and the query-time search
// path. Per-file failures are recovered here: they are logged and the file
// is skipped, never aborting a build.
package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"docgraph/internal/domain"
)

// ErrNoDocuments means the corpus directory held no file any extractor
// supports.
var ErrNoDocuments = errors.New("no processable documents found")

// listFiles walks root and returns the supported files in lexicographic
// path order. Dot-directories (including a .docgraph index dir inside the
// corpus) are skipped.
func listFiles(root string, extractor domain.TextExtractor) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if extractor.Supports(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// extractAll runs text extraction over the given paths with a bounded
// worker pool. The result preserves the input order; files that fail or
// yield no text come back with empty Text and are counted as skipped.
func extractAll(ctx context.Context, extractor domain.TextExtractor, paths []string, workers int, logger *slog.Logger) ([]domain.Document, int) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	docs := make([]domain.Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := extractor.ExtractText(path)
			if err != nil {
				// Extraction failures degrade to "no text" for this file.
				logger.Warn("extract.failed", "path", path, "error", err)
				text = ""
			}
			docs[i] = domain.Document{
				File: filepath.Base(path),
				Path: path,
				Text: text,
			}
			return nil
		})
	}
	// The only error workers return is context cancellation; extraction
	// errors never propagate.
	_ = g.Wait()

	skipped := 0
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			skipped++
		}
	}
	return docs, skipped
}
