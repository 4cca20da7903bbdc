// Package index provides exact nearest-neighbor search over normalized
// vectors. The flat index is sufficient at knowledge-base scale (tens to low
// thousands of documents); callers depend on a narrow interface so an
// approximate structure can replace it without touching them.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/shoplite/storeassist/internal/domain"
)

// normEpsilon guards the normalization denominator against a zero vector.
const normEpsilon = 1e-12

// Entry pairs a stored vector's insertion position with its similarity to a query.
type Entry struct {
	Position int
	Score    float64
}

// Flat is an exact inner-product index. Vectors must be L2-normalized by the
// caller before Build, which makes inner product equal to cosine similarity.
// Read-only after Build; safe for concurrent Search.
type Flat struct {
	dim     int
	vectors [][]float32
}

// Build creates a flat index over pre-normalized vectors.
// Fails when vectors is empty or any vector's length differs from dim.
func Build(vectors [][]float32, dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d: %w", dim, domain.ErrVectorDimMismatch)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cannot build index: %w", domain.ErrEmptyKnowledgeBase)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w",
				i, len(v), dim, domain.ErrVectorDimMismatch)
		}
	}
	return &Flat{dim: dim, vectors: vectors}, nil
}

// Dim returns the index dimension.
func (f *Flat) Dim() int { return f.dim }

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Search returns up to topK entries sorted by similarity descending.
// Ties resolve by ascending insertion position, so results are deterministic.
func (f *Flat) Search(query []float32, topK int) ([]Entry, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, want %d: %w",
			len(query), f.dim, domain.ErrVectorDimMismatch)
	}
	if topK <= 0 {
		return nil, nil
	}

	entries := make([]Entry, len(f.vectors))
	for i, v := range f.vectors {
		entries[i] = Entry{Position: i, Score: dot(v, query)}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Position < entries[j].Position
	})

	if topK < len(entries) {
		entries = entries[:topK]
	}
	return entries, nil
}

// Normalize returns an L2-normalized copy of v. A small epsilon in the
// denominator keeps an all-zero vector from dividing by zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + normEpsilon

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
