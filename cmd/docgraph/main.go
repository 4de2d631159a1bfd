package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"docgraph/internal/config"
	"docgraph/internal/domain"
	"docgraph/internal/embedding/ollama"
	"docgraph/internal/embedding/openai"
	"docgraph/internal/embedding/tfidf"
	"docgraph/internal/extractor"
	"docgraph/internal/service"
	"docgraph/internal/vectorstore"
	"docgraph/internal/watcher"
)

const usage = `Usage: docgraph <command> [flags] <dir>

Commands:
  index   build the vector index for a directory of documents
  search  query a built index (-q "query" [-k 5])
  graph   build the knowledge graph and write JSON/DOT/Markdown exports
  watch   rebuild index and graph whenever documents change
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}
	cmd, args := os.Args[1], os.Args[2:]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file (optional; uses ~/.config/docgraph/config.yaml if not provided)")
	verbose := fs.Bool("v", false, "Verbose logging")
	query := fs.String("q", "", "Search query (search command)")
	topK := fs.Int("k", 5, "Number of results (search command)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Print(usage)
		os.Exit(1)
	}
	root := fs.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ext := extractor.NewPlainText(cfg.Extensions...)
	store := vectorstore.NewStore(indexDir(root, cfg.Index.Dir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "index":
		emb := buildEmbedder(cfg)
		runIndex(ctx, ext, emb, store, cfg, logger, root)
	case "search":
		if *query == "" {
			log.Fatal("search requires -q \"query\"")
		}
		emb := buildEmbedder(cfg)
		runSearch(ctx, emb, store, logger, *query, *topK)
	case "graph":
		runGraph(ctx, ext, store, cfg, logger, root)
	case "watch":
		emb := buildEmbedder(cfg)
		runWatch(ctx, ext, emb, store, cfg, logger, root)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
}

// indexDir anchors a relative index directory under the corpus root so a
// corpus carries its own artifacts.
func indexDir(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

func buildEmbedder(cfg *config.AppConfig) domain.Embedder {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		return client
	case "ollama":
		if cfg.Embedder.Ollama == nil {
			log.Fatalf("ollama embedder config missing")
		}
		return ollama.NewClient(ollama.Config{
			BaseURL: cfg.Embedder.Ollama.BaseURL,
			Model:   cfg.Embedder.Ollama.Model,
			Timeout: time.Duration(cfg.Embedder.Ollama.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
		return nil
	}
}

func newIndexer(ext domain.TextExtractor, emb domain.Embedder, store *vectorstore.Store, cfg *config.AppConfig, logger *slog.Logger) *service.Indexer {
	return service.NewIndexer(ext, emb, store, service.IndexOptions{
		ChunkSize:    cfg.Index.ChunkSize,
		Overlap:      cfg.Index.Overlap,
		Workers:      cfg.Index.Workers,
		EmbedWorkers: cfg.Index.EmbedWorkers,
		Logger:       logger,
	})
}

func runIndex(ctx context.Context, ext domain.TextExtractor, emb domain.Embedder, store *vectorstore.Store, cfg *config.AppConfig, logger *slog.Logger, root string) {
	stats, err := newIndexer(ext, emb, store, cfg, logger).Build(ctx, root)
	if err != nil {
		if errors.Is(err, service.ErrNoDocuments) {
			log.Fatalf("no processable documents under %s", root)
		}
		log.Fatalf("index build failed: %v", err)
	}
	if stats.Entries == 0 {
		log.Fatalf("index build produced no entries (%d chunks, %d embedding failures)", stats.Chunks, stats.EmbedErrors)
	}
	fmt.Printf("Indexed %d files (%d chunks, %d entries) into %s\n",
		stats.Files, stats.Chunks, stats.Entries, store.Dir())
	if stats.SkippedFiles > 0 {
		fmt.Printf("Skipped %d files with no extractable text\n", stats.SkippedFiles)
	}
}

func runSearch(ctx context.Context, emb domain.Embedder, store *vectorstore.Store, logger *slog.Logger, query string, topK int) {
	searcher := service.NewSearcher(emb, store, logger)
	results, err := searcher.Search(ctx, query, topK)
	if err != nil {
		if errors.Is(err, vectorstore.ErrIndexNotFound) {
			log.Fatalf("no index found in %s; run `docgraph index` first", store.Dir())
		}
		log.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, r := range results {
		fmt.Printf("%d. %s (score %.3f)\n   %s\n", i+1, r.File, r.Score, r.Chunk)
	}
}

func runGraph(ctx context.Context, ext domain.TextExtractor, store *vectorstore.Store, cfg *config.AppConfig, logger *slog.Logger, root string) {
	grapher := service.NewGrapher(ext, service.GrapherOptions{
		TopTopics: cfg.Graph.TopTopics,
		Workers:   cfg.Index.Workers,
		Logger:    logger,
	})
	g, err := grapher.Build(ctx, root)
	if err != nil {
		if errors.Is(err, service.ErrNoDocuments) {
			log.Fatalf("no processable documents under %s", root)
		}
		log.Fatalf("graph build failed: %v", err)
	}
	if err := grapher.Export(g, store.Dir()); err != nil {
		log.Fatalf("graph export failed: %v", err)
	}
	stats := g.Stats()
	fmt.Printf("Graph: %d files, %d entities, %d topics, %d edges\n",
		stats.FileCount, stats.EntityCount, stats.TopicCount, len(g.Edges))
	fmt.Printf("Exports written to %s\n", store.Dir())
}

func runWatch(ctx context.Context, ext domain.TextExtractor, emb domain.Embedder, store *vectorstore.Store, cfg *config.AppConfig, logger *slog.Logger, root string) {
	rebuild := func() {
		if _, err := newIndexer(ext, emb, store, cfg, logger).Build(ctx, root); err != nil {
			logger.Error("rebuild.index_failed", "error", err)
			return
		}
		grapher := service.NewGrapher(ext, service.GrapherOptions{
			TopTopics: cfg.Graph.TopTopics,
			Workers:   cfg.Index.Workers,
			Logger:    logger,
		})
		g, err := grapher.Build(ctx, root)
		if err != nil {
			logger.Error("rebuild.graph_failed", "error", err)
			return
		}
		if err := grapher.Export(g, store.Dir()); err != nil {
			logger.Error("rebuild.export_failed", "error", err)
		}
	}

	// Initial build, then rebuild on change.
	rebuild()

	w, err := watcher.New(ext, time.Duration(cfg.Watch.DebounceMillis)*time.Millisecond, logger)
	if err != nil {
		log.Fatalf("watcher init failed: %v", err)
	}
	defer w.Close()

	triggers, err := w.Watch(ctx, root)
	if err != nil {
		log.Fatalf("watch failed: %v", err)
	}
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", root)
	for range triggers {
		logger.Info("watch.rebuild", "root", root)
		rebuild()
	}
}
