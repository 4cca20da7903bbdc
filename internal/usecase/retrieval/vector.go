package retrieval

import (
	"context"
	"fmt"

	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
	"github.com/shoplite/storeassist/internal/index"
)

// DefaultVectorThreshold is the minimum cosine similarity for a hit.
// Empirically chosen for one embedding model; override per deployment.
const DefaultVectorThreshold = 0.25

// VectorStrategy scores queries by cosine similarity between the query
// embedding and the pre-built document index.
type VectorStrategy struct {
	embed       Embedder
	threshold   float64
	calibration domret.Calibration
}

// NewVectorStrategy creates the vector-similarity scoring strategy.
func NewVectorStrategy(embed Embedder, threshold float64, cal domret.Calibration) *VectorStrategy {
	return &VectorStrategy{embed: embed, threshold: threshold, calibration: cal}
}

// Name implements Strategy.
func (v *VectorStrategy) Name() string { return "vector" }

// Calibration implements Strategy.
func (v *VectorStrategy) Calibration() domret.Calibration { return v.calibration }

// Score embeds the query, normalizes it, and searches the snapshot index.
// Entries below the similarity threshold are dropped; the index's ordering
// (score desc, position asc on ties) is preserved.
func (v *VectorStrategy) Score(
	ctx context.Context, snap *Snapshot, query string, topK int,
) ([]domret.Hit, error) {
	embRes, err := v.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	entries, err := snap.Index.Search(index.Normalize(embRes.Embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	hits := make([]domret.Hit, 0, len(entries))
	for _, e := range entries {
		if e.Score < v.threshold {
			continue
		}
		doc, ok := snap.Store.At(e.Position)
		if !ok {
			return nil, fmt.Errorf("index position %d has no document", e.Position)
		}
		hits = append(hits, domret.NewHit(doc, e.Score))
	}
	return hits, nil
}
