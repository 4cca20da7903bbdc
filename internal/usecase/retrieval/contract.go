// Package retrieval implements the engine that turns a raw query into
// ranked, thresholded knowledge-base hits with a calibrated confidence label.
package retrieval

import (
	"context"

	"github.com/shoplite/storeassist/internal/domain"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
	"github.com/shoplite/storeassist/internal/index"
	"github.com/shoplite/storeassist/internal/knowledge"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher answers nearest-neighbor queries. The flat index satisfies it;
// an approximate structure can replace it without touching the engine.
type Searcher interface {
	Search(query []float32, topK int) ([]index.Entry, error)
	Dim() int
}

// Snapshot pairs the knowledge store with the vector index built from it.
// Both are read-only; a rebuild produces a fresh snapshot that the engine
// swaps in atomically.
type Snapshot struct {
	Store *knowledge.Store
	Index Searcher
}

// Strategy scores a query against a snapshot. Each implementation carries its
// own score range, threshold, and confidence calibration.
type Strategy interface {
	Name() string
	Calibration() domret.Calibration
	// Score returns hits above the strategy's threshold, sorted by score
	// descending with ties broken by ascending document position.
	Score(ctx context.Context, snap *Snapshot, query string, topK int) ([]domret.Hit, error)
}
