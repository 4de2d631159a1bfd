package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docgraph/internal/config"
	"docgraph/internal/domain"
	"docgraph/internal/embedding/ollama"
	"docgraph/internal/embedding/openai"
	"docgraph/internal/embedding/tfidf"
	"docgraph/internal/extractor"
	"docgraph/internal/service"
	"docgraph/internal/tui"
	"docgraph/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to YAML config file (optional; uses ~/.config/docgraph/config.yaml if not provided)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: docgraph-tui [--config=config.yaml] <dir>")
		os.Exit(1)
	}
	root := flag.Arg(0)

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

	// The terminal belongs to Bubble Tea; keep service logs out of it.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
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
		emb = client
	case "ollama":
		if cfg.Embedder.Ollama == nil {
			log.Fatalf("ollama embedder config missing")
		}
		emb = ollama.NewClient(ollama.Config{
			BaseURL: cfg.Embedder.Ollama.BaseURL,
			Model:   cfg.Embedder.Ollama.Model,
			Timeout: time.Duration(cfg.Embedder.Ollama.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	indexPath := cfg.Index.Dir
	if !filepath.IsAbs(indexPath) {
		indexPath = filepath.Join(root, indexPath)
	}
	store := vectorstore.NewStore(indexPath)

	ext := extractor.NewPlainText(cfg.Extensions...)
	indexer := service.NewIndexer(ext, emb, store, service.IndexOptions{
		ChunkSize:    cfg.Index.ChunkSize,
		Overlap:      cfg.Index.Overlap,
		Workers:      cfg.Index.Workers,
		EmbedWorkers: cfg.Index.EmbedWorkers,
		Logger:       logger,
	})
	stats, err := indexer.Build(context.Background(), root)
	if err != nil {
		log.Fatalf("index build failed: %v", err)
	}
	if stats.Entries == 0 {
		log.Fatalf("index build produced no entries")
	}

	searcher := service.NewSearcher(emb, store, logger)
	summary := fmt.Sprintf("%d files, %d chunks indexed from %s", stats.Files, stats.Entries, root)

	m := tui.New(searcher, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
