package service

import (
	"context"
	"fmt"
	"log/slog"

	"docgraph/internal/domain"
	"docgraph/internal/vectorstore"
)

// Searcher answers queries against a persisted index. The index artifacts
// are loaded per search; corpus-trained embedders (TF-IDF) are re-prepared
// from the stored chunk texts so query vectors live in the index's space.
type Searcher struct {
	embedder domain.Embedder
	store    *vectorstore.Store
	logger   *slog.Logger
}

// NewSearcher creates a query-time search service.
func NewSearcher(embedder domain.Embedder, store *vectorstore.Store, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{embedder: embedder, store: store, logger: logger}
}

// Search embeds query and returns the topK most similar chunks, best first.
// Returns vectorstore.ErrIndexNotFound when no index has been built.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if !s.store.Exists() {
		return nil, vectorstore.ErrIndexNotFound
	}
	entries, err := s.store.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("loading index metadata: %w", err)
	}
	vectors, err := s.store.LoadVectors()
	if err != nil {
		return nil, fmt.Errorf("loading vectors: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Chunk
	}
	if err := s.embedder.Prepare(texts); err != nil {
		return nil, fmt.Errorf("preparing embedder: %w", err)
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := vectorstore.FindTopSimilar(queryVec, vectors, topK)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		e := entries[m.Index]
		results = append(results, domain.SearchResult{
			File:  e.File,
			Path:  e.Path,
			Score: m.Score,
			Chunk: e.Chunk,
		})
	}
	s.logger.Debug("search.done", "query_len", len(query), "results", len(results))
	return results, nil
}
