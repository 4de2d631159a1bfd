package vectorstore

import (
	"fmt"
	"math"
	"sort"
)

// Match pairs a vector's row index with its similarity score.
type Match struct {
	Index int
	Score float64
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Vectors need not be unit length. A zero-magnitude vector yields
// 0.0 by definition rather than an error.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// FindTopSimilar scores query against every vector and returns at most
// min(topK, len(vectors)) matches ordered by descending score, ties broken
// by the lower row index. topK <= 0 or an empty corpus yields no matches.
func FindTopSimilar(query []float64, vectors [][]float64, topK int) ([]Match, error) {
	if topK <= 0 || len(vectors) == 0 {
		return nil, nil
	}
	matches := make([]Match, len(vectors))
	for i, v := range vectors {
		score, err := CosineSimilarity(query, v)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		matches[i] = Match{Index: i, Score: score}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}
