package domain

// Document is a source file with its extracted plain text.
type Document struct {
	File string // base name, e.g. "report.txt"
	Path string // full path as discovered
	Text string
}

// Chunk is a bounded word-window slice of a document's extracted text.
// Chunks are ephemeral; they exist only between chunking and embedding.
type Chunk struct {
	SourceFile string
	SourcePath string
	Text       string
	Sequence   int
}

// IndexEntry pairs a chunk with its row in the persisted vector array.
// After a build, entries[i].Index == i and the entry count equals the
// vector row count.
type IndexEntry struct {
	File  string `json:"file"`
	Path  string `json:"path"`
	Chunk string `json:"chunk"`
	Index int    `json:"index"`
}

// SearchResult is a scored chunk returned at query time. Never persisted.
type SearchResult struct {
	File  string
	Path  string
	Score float64
	Chunk string
}
