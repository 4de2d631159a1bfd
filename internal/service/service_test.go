package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docgraph/internal/embedding/tfidf"
	"docgraph/internal/extractor"
	"docgraph/internal/graph"
	"docgraph/internal/vectorstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// stubEmbedder fails on texts containing a marker word and otherwise returns
// a fixed-width vector.
type stubEmbedder struct {
	failOn string
}

func (s *stubEmbedder) Name() string           { return "stub" }
func (s *stubEmbedder) Prepare([]string) error { return nil }
func (s *stubEmbedder) Dimension() int         { return 3 }
func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return nil, errors.New("provider unavailable")
	}
	return []float64{float64(len(text)), 1, 0}, nil
}

func TestIndexerBuild(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"alpha.txt": "The rocket engine burned liquid methane during ascent.",
		"beta.md":   "Budget planning documents cover quarterly revenue estimates.",
		"skip.bin":  "binary",
	})
	store := vectorstore.NewStore(filepath.Join(corpus, ".docgraph"))
	ix := NewIndexer(extractor.NewPlainText(), tfidf.NewEmbedder(), store, IndexOptions{
		ChunkSize: 50,
		Overlap:   10,
		Logger:    discardLogger(),
	})

	stats, err := ix.Build(context.Background(), corpus)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Files != 2 {
		t.Errorf("Files = %d, want 2", stats.Files)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if !store.Exists() {
		t.Fatal("index artifacts not written")
	}

	entries, err := store.LoadIndex()
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range entries {
		if e.Index != i {
			t.Errorf("entry %d has index %d", i, e.Index)
		}
	}
	// Sorted walk order: alpha.txt before beta.md.
	if entries[0].File != "alpha.txt" || entries[1].File != "beta.md" {
		t.Errorf("unexpected entry order: %s, %s", entries[0].File, entries[1].File)
	}

	vectors, err := store.LoadVectors()
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != len(entries) {
		t.Errorf("%d vectors for %d entries", len(vectors), len(entries))
	}
}

func TestIndexerBuildIsIdempotent(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"a.txt": "Observability pipelines ship traces and metrics downstream.",
		"b.txt": "Tracing spans annotate latency across service boundaries.",
	})
	store := vectorstore.NewStore(filepath.Join(corpus, ".docgraph"))

	build := func() ([]byte, []byte) {
		ix := NewIndexer(extractor.NewPlainText(), tfidf.NewEmbedder(), store, IndexOptions{Logger: discardLogger()})
		if _, err := ix.Build(context.Background(), corpus); err != nil {
			t.Fatal(err)
		}
		vecs, err := os.ReadFile(filepath.Join(store.Dir(), vectorstore.VectorsFile))
		if err != nil {
			t.Fatal(err)
		}
		idx, err := os.ReadFile(filepath.Join(store.Dir(), vectorstore.IndexFile))
		if err != nil {
			t.Fatal(err)
		}
		return vecs, idx
	}

	vecs1, idx1 := build()
	vecs2, idx2 := build()
	if string(vecs1) != string(vecs2) {
		t.Error("vector artifact differs between identical builds")
	}
	if string(idx1) != string(idx2) {
		t.Error("metadata artifact differs between identical builds")
	}
}

func TestIndexerBuildNoDocuments(t *testing.T) {
	dir := t.TempDir()
	store := vectorstore.NewStore(filepath.Join(dir, ".docgraph"))
	ix := NewIndexer(extractor.NewPlainText(), tfidf.NewEmbedder(), store, IndexOptions{Logger: discardLogger()})
	if _, err := ix.Build(context.Background(), dir); !errors.Is(err, ErrNoDocuments) {
		t.Errorf("err = %v, want ErrNoDocuments", err)
	}
}

func TestIndexerBuildSkipsFailedEmbeddings(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"good.txt":   "A perfectly ordinary paragraph of text.",
		"poison.txt": "POISON marker that the provider rejects.",
	})
	store := vectorstore.NewStore(filepath.Join(corpus, ".docgraph"))
	ix := NewIndexer(extractor.NewPlainText(), &stubEmbedder{failOn: "POISON"}, store, IndexOptions{Logger: discardLogger()})

	stats, err := ix.Build(context.Background(), corpus)
	if err != nil {
		t.Fatal(err)
	}
	if stats.EmbedErrors != 1 {
		t.Errorf("EmbedErrors = %d, want 1", stats.EmbedErrors)
	}
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
	entries, err := store.LoadIndex()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].File != "good.txt" || entries[0].Index != 0 {
		t.Errorf("unexpected surviving entries: %+v", entries)
	}
}

func TestIndexerBuildAllEmbeddingsFail(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"only.txt": "POISON everywhere in this corpus.",
	})
	store := vectorstore.NewStore(filepath.Join(corpus, ".docgraph"))
	ix := NewIndexer(extractor.NewPlainText(), &stubEmbedder{failOn: "POISON"}, store, IndexOptions{Logger: discardLogger()})

	stats, err := ix.Build(context.Background(), corpus)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries = %d, want 0", stats.Entries)
	}
	if store.Exists() {
		t.Error("artifacts written despite zero entries")
	}
}

func TestIndexerSkipsDotDirectories(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"visible.txt":         "Plain visible content for the index.",
		".hidden/secret.txt":  "Must not be indexed.",
		".docgraph/notes.txt": "Index dir itself must be excluded.",
	})
	store := vectorstore.NewStore(filepath.Join(corpus, ".docgraph"))
	ix := NewIndexer(extractor.NewPlainText(), tfidf.NewEmbedder(), store, IndexOptions{Logger: discardLogger()})

	stats, err := ix.Build(context.Background(), corpus)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Files != 1 {
		t.Errorf("Files = %d, want 1", stats.Files)
	}
}

func TestSearcher(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"space.txt":   "Rocket engines burn methane and oxygen during launch ascent.",
		"finance.txt": "Quarterly budget revenue forecasts guide spending decisions.",
	})
	store := vectorstore.NewStore(filepath.Join(corpus, ".docgraph"))
	ix := NewIndexer(extractor.NewPlainText(), tfidf.NewEmbedder(), store, IndexOptions{Logger: discardLogger()})
	if _, err := ix.Build(context.Background(), corpus); err != nil {
		t.Fatal(err)
	}

	s := NewSearcher(tfidf.NewEmbedder(), store, discardLogger())
	results, err := s.Search(context.Background(), "rocket methane launch", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].File != "space.txt" {
		t.Errorf("best match = %s, want space.txt", results[0].File)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not ordered by descending score")
	}
}

func TestSearcherNoIndex(t *testing.T) {
	store := vectorstore.NewStore(filepath.Join(t.TempDir(), ".docgraph"))
	s := NewSearcher(tfidf.NewEmbedder(), store, discardLogger())
	if _, err := s.Search(context.Background(), "anything", 5); !errors.Is(err, vectorstore.ErrIndexNotFound) {
		t.Errorf("err = %v, want ErrIndexNotFound", err)
	}
}

func TestGrapherBuildAndExport(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"a.txt": "Acme Corp signed a contract. Acme Corp is pleased.",
		"b.txt": "Globex Inc reviewed the contract.",
	})
	gr := NewGrapher(extractor.NewPlainText(), GrapherOptions{Logger: discardLogger()})

	g, err := gr.Build(context.Background(), corpus)
	if err != nil {
		t.Fatal(err)
	}
	stats := g.Stats()
	if stats.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", stats.FileCount)
	}
	if !g.HasNode(graph.NodeID(graph.NodeEntity, "Acme Corp")) {
		t.Error("missing entity node for Acme Corp")
	}

	outDir := filepath.Join(corpus, ".docgraph")
	if err := gr.Export(g, outDir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{GraphJSONFile, GraphDOTFile, GraphMarkdownFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing export %s: %v", name, err)
		}
	}
}

func TestGrapherBuildNoDocuments(t *testing.T) {
	gr := NewGrapher(extractor.NewPlainText(), GrapherOptions{Logger: discardLogger()})
	if _, err := gr.Build(context.Background(), t.TempDir()); !errors.Is(err, ErrNoDocuments) {
		t.Errorf("err = %v, want ErrNoDocuments", err)
	}
}
