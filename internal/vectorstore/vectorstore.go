// Package vectorstore persists the paired index artifacts (a raw row-major
// float64 vector file and a JSON metadata file) and provides exact
// cosine-similarity search over loaded vectors.
package vectorstore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"docgraph/internal/domain"
)

const (
	// VectorsFile is the raw vector artifact inside an index directory.
	// Little-endian IEEE-754 float64, row-major; row count and width are
	// implied by the companion metadata file.
	VectorsFile = "vectors.bin"
	// IndexFile is the JSON metadata artifact listing one entry per row.
	IndexFile = "index.json"
)

var (
	// ErrIndexNotFound indicates one or both index artifacts are missing.
	ErrIndexNotFound = errors.New("index not found")
	// ErrDimensionMismatch indicates two vectors of different lengths were
	// compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Store reads and writes the paired index artifacts inside one directory.
// The two writes are coupled: a build is complete only when both succeed.
type Store struct {
	dir string
}

// NewStore returns a store bound to the given index directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the index directory this store operates on.
func (s *Store) Dir() string { return s.dir }

// SaveVectors writes the raw vector artifact. All rows must share one
// dimensionality.
func (s *Store) SaveVectors(vectors [][]float64) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	for i := 1; i < len(vectors); i++ {
		if len(vectors[i]) != len(vectors[0]) {
			return fmt.Errorf("%w: row %d has %d values, row 0 has %d",
				ErrDimensionMismatch, i, len(vectors[i]), len(vectors[0]))
		}
	}
	f, err := os.Create(filepath.Join(s.dir, VectorsFile))
	if err != nil {
		return err
	}
	defer f.Close()
	for _, row := range vectors {
		if err := binary.Write(f, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("writing vectors: %w", err)
		}
	}
	return f.Close()
}

// SaveIndex writes the JSON metadata artifact.
func (s *Store) SaveIndex(entries []domain.IndexEntry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.IndexEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, IndexFile), data, 0o644)
}

// LoadIndex reads the metadata artifact.
func (s *Store) LoadIndex() ([]domain.IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, IndexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrIndexNotFound
		}
		return nil, err
	}
	var entries []domain.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", IndexFile, err)
	}
	return entries, nil
}

// LoadVectors reads the vector artifact. The row count comes from the
// metadata artifact; the width follows from the file size.
func (s *Store) LoadVectors() ([][]float64, error) {
	entries, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, VectorsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrIndexNotFound
		}
		return nil, err
	}
	rows := len(entries)
	if rows == 0 {
		if len(data) != 0 {
			return nil, fmt.Errorf("%s lists no entries but %s is non-empty", IndexFile, VectorsFile)
		}
		return nil, nil
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%s is not a whole number of float64 values", VectorsFile)
	}
	total := len(data) / 8
	if total%rows != 0 {
		return nil, fmt.Errorf("%s holds %d values, not divisible by %d rows", VectorsFile, total, rows)
	}
	width := total / rows
	vectors := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, width)
		for j := 0; j < width; j++ {
			bits := binary.LittleEndian.Uint64(data[(i*width+j)*8:])
			row[j] = math.Float64frombits(bits)
		}
		vectors[i] = row
	}
	return vectors, nil
}

// Exists reports whether both artifacts are present. One-sided presence is
// treated as absent.
func (s *Store) Exists() bool {
	for _, name := range []string{VectorsFile, IndexFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}
	return true
}
