// Package indexer builds retrieval snapshots from the knowledge base and
// swaps them into the engine.
package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/domain"
	"github.com/shoplite/storeassist/internal/index"
	"github.com/shoplite/storeassist/internal/knowledge"
	"github.com/shoplite/storeassist/internal/usecase/retrieval"
)

// Swapper receives freshly built snapshots.
type Swapper interface {
	Swap(snap *retrieval.Snapshot)
}

// Service loads documents, embeds them, and assembles snapshots. embedder is
// nil in keyword-only deployments; the snapshot then carries no index.
type Service struct {
	path     string
	embedder domain.BatchEmbedder
	logger   *zap.Logger
}

// New creates an indexer service.
func New(path string, embedder domain.BatchEmbedder, logger *zap.Logger) *Service {
	return &Service{path: path, embedder: embedder, logger: logger}
}

// Build loads the knowledge base and constructs a snapshot with a freshly
// built vector index.
func (s *Service) Build(ctx context.Context) (*retrieval.Snapshot, error) {
	docs := knowledge.LoadOrSeed(s.path, s.logger)

	store, err := knowledge.NewStore(docs)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	snap := &retrieval.Snapshot{Store: store}
	if s.embedder == nil {
		return snap, nil
	}

	texts := make([]string, store.Len())
	for i, doc := range store.Documents() {
		texts[i] = doc.EmbeddingText()
	}

	res, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed knowledge base: %w", err)
	}
	if len(res.Embeddings) != store.Len() {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d: %w",
			len(res.Embeddings), store.Len(), domain.ErrEmbeddingProviderError)
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, v := range res.Embeddings {
		vectors[i] = index.Normalize(v)
	}

	idx, err := index.Build(vectors, len(vectors[0]))
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	snap.Index = idx

	s.logger.Info("Knowledge base indexed",
		zap.Int("documents", store.Len()),
		zap.Int("dimensions", idx.Dim()),
		zap.Int("tokens", res.TotalTokens))

	return snap, nil
}

// Rebuild builds a new snapshot and swaps it into the target. The old
// snapshot keeps serving in-flight queries. Returns the new document count.
func (s *Service) Rebuild(ctx context.Context, target Swapper) (int, error) {
	snap, err := s.Build(ctx)
	if err != nil {
		return 0, err
	}
	target.Swap(snap)
	return snap.Store.Len(), nil
}

// Bound couples the indexer to a fixed swap target.
type Bound struct {
	svc    *Service
	target Swapper
}

// Bind creates a Bound indexer for transport use.
func Bind(svc *Service, target Swapper) *Bound {
	return &Bound{svc: svc, target: target}
}

// Reindex rebuilds the snapshot and swaps it into the bound target.
func (b *Bound) Reindex(ctx context.Context) (int, error) {
	return b.svc.Rebuild(ctx, b.target)
}
