package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"docgraph/internal/domain"
	"docgraph/internal/graph"
)

// Graph export artifact names, written next to the vector index.
const (
	GraphJSONFile     = "graph.json"
	GraphDOTFile      = "graph.dot"
	GraphMarkdownFile = "graph.md"
)

// GrapherOptions tunes a graph build.
type GrapherOptions struct {
	TopTopics int // topics kept per file; 0 = analyzer default
	Workers   int // extraction workers; 0 = NumCPU
	Logger    *slog.Logger
}

// Grapher extracts documents and assembles the corpus knowledge graph.
type Grapher struct {
	extractor domain.TextExtractor
	builder   *graph.Builder
	opts      GrapherOptions
	logger    *slog.Logger
}

// NewGrapher creates a graph-building orchestrator.
func NewGrapher(extractor domain.TextExtractor, opts GrapherOptions) *Grapher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Grapher{
		extractor: extractor,
		builder:   graph.NewBuilder(opts.TopTopics),
		opts:      opts,
		logger:    logger,
	}
}

// Build constructs the knowledge graph for every supported file under root.
func (gr *Grapher) Build(ctx context.Context, root string) (*graph.Graph, error) {
	paths, err := listFiles(root, gr.extractor)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	docs, skipped := extractAll(ctx, gr.extractor, paths, gr.opts.Workers, gr.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := gr.builder.Build(docs)
	stats := g.Stats()
	gr.logger.Info("graph.built",
		"root", root,
		"files", stats.FileCount,
		"entities", stats.EntityCount,
		"topics", stats.TopicCount,
		"edges", len(g.Edges),
		"skipped_files", skipped,
	)
	return g, nil
}

// Export writes the JSON, DOT, and Markdown renderings of g into dir.
func (gr *Grapher) Export(g *graph.Graph, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	jsonData, err := g.MarshalJSONDoc()
	if err != nil {
		return fmt.Errorf("rendering %s: %w", GraphJSONFile, err)
	}
	outputs := map[string][]byte{
		GraphJSONFile:     jsonData,
		GraphDOTFile:      []byte(g.MarshalDOT()),
		GraphMarkdownFile: []byte(g.MarshalMarkdown()),
	}
	for _, name := range []string{GraphJSONFile, GraphDOTFile, GraphMarkdownFile} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, outputs[name], 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
