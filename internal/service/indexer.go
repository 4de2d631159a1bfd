package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"docgraph/internal/chunker"
	"docgraph/internal/domain"
	"docgraph/internal/vectorstore"
)

// IndexOptions tunes an index build.
type IndexOptions struct {
	ChunkSize    int
	Overlap      int
	Workers      int // extraction workers; 0 = NumCPU
	EmbedWorkers int // concurrent embedding calls
	Logger       *slog.Logger
}

// IndexStats summarizes a completed build.
type IndexStats struct {
	Files        int // files with extractable text
	SkippedFiles int
	Chunks       int
	Entries      int // rows written; zero signals a failed provider
	EmbedErrors  int
}

// Indexer drives the per-file loop of the indexing pass: extract, chunk,
// embed, and persist the paired index artifacts.
type Indexer struct {
	extractor domain.TextExtractor
	embedder  domain.Embedder
	store     *vectorstore.Store
	opts      IndexOptions
	logger    *slog.Logger
}

// NewIndexer creates an indexing orchestrator.
func NewIndexer(extractor domain.TextExtractor, embedder domain.Embedder, store *vectorstore.Store, opts IndexOptions) *Indexer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 200
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.EmbedWorkers <= 0 {
		opts.EmbedWorkers = 4
	}
	return &Indexer{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		opts:      opts,
		logger:    logger,
	}
}

// Build indexes every supported file under root. Files are processed in
// lexicographic path order so entry indices and the persisted artifacts
// are reproducible for identical input. Per-file and per-chunk failures are
// skipped; the build errors only when no file could be processed at all or
// when persistence fails. A build that produced zero entries writes nothing
// and reports Entries == 0 for the caller to act on.
func (ix *Indexer) Build(ctx context.Context, root string) (*IndexStats, error) {
	paths, err := listFiles(root, ix.extractor)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	docs, skipped := extractAll(ctx, ix.extractor, paths, ix.opts.Workers, ix.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &IndexStats{Files: len(docs) - skipped, SkippedFiles: skipped}

	// Chunk in file order; the flattened chunk list fixes entry indices
	// before any embedding runs.
	var chunks []domain.Chunk
	for _, doc := range docs {
		for _, c := range chunker.Split(doc, ix.opts.ChunkSize, ix.opts.Overlap) {
			if strings.TrimSpace(c.Text) == "" {
				continue
			}
			chunks = append(chunks, c)
		}
	}
	stats.Chunks = len(chunks)
	if len(chunks) == 0 {
		ix.logger.Warn("index.empty", "root", root, "files", len(paths))
		return stats, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	if err := ix.embedder.Prepare(texts); err != nil {
		return nil, fmt.Errorf("preparing embedder: %w", err)
	}

	vectors, embedErrors := ix.embedAll(ctx, texts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats.EmbedErrors = embedErrors

	entries, rows, err := collectRows(chunks, vectors)
	if err != nil {
		return nil, err
	}
	stats.Entries = len(entries)
	if len(entries) == 0 {
		ix.logger.Warn("index.no_entries", "root", root, "embed_errors", embedErrors)
		return stats, nil
	}

	// Both artifacts must land for the build to count as successful.
	if err := ix.store.SaveVectors(rows); err != nil {
		return nil, fmt.Errorf("saving vectors: %w", err)
	}
	if err := ix.store.SaveIndex(entries); err != nil {
		return nil, fmt.Errorf("saving index metadata: %w", err)
	}
	ix.logger.Info("index.built",
		"root", root,
		"files", stats.Files,
		"entries", stats.Entries,
		"dimension", len(rows[0]),
	)
	return stats, nil
}

// embedAll embeds every chunk once, in parallel up to EmbedWorkers. The
// result slice is positionally parallel to texts; failed chunks stay nil.
func (ix *Indexer) embedAll(ctx context.Context, texts []string) ([][]float64, int) {
	vectors := make([][]float64, len(texts))
	failures := make([]bool, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.opts.EmbedWorkers)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vec, err := ix.embedder.Embed(ctx, text)
			if err != nil {
				ix.logger.Warn("embed.failed", "chunk", i, "error", err)
				failures[i] = true
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, f := range failures {
		if f {
			count++
		}
	}
	return vectors, count
}

// collectRows drops failed chunks and assigns contiguous entry indices.
// All surviving vectors must share one dimensionality.
func collectRows(chunks []domain.Chunk, vectors [][]float64) ([]domain.IndexEntry, [][]float64, error) {
	var entries []domain.IndexEntry
	var rows [][]float64
	for i, vec := range vectors {
		if vec == nil {
			continue
		}
		if len(rows) > 0 && len(vec) != len(rows[0]) {
			return nil, nil, fmt.Errorf("%w: chunk %d produced %d values, expected %d",
				vectorstore.ErrDimensionMismatch, i, len(vec), len(rows[0]))
		}
		entries = append(entries, domain.IndexEntry{
			File:  chunks[i].SourceFile,
			Path:  chunks[i].SourcePath,
			Chunk: chunks[i].Text,
			Index: len(entries),
		})
		rows = append(rows, vec)
	}
	return entries, rows, nil
}
