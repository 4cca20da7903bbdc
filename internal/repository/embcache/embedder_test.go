package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shoplite/storeassist/internal/db"
	"github.com/shoplite/storeassist/internal/domain"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	var setCalled bool
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		setCalled = true
		setTTL = ttl
		return nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
	if setTTL != time.Hour {
		t.Fatalf("expected 1h TTL, got %v", setTTL)
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.4 {
		t.Fatalf("expected cached vector, got: %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Fatalf("expected TotalTokens=0 on cache hit, got %d", result.TotalTokens)
	}
	if inner.embedCalls != 0 {
		t.Fatalf("inner embedder should not be called on hit, got %d calls", inner.embedCalls)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	if _, err := ce.Embed(ctx, "test text"); err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestEmbed_StoreErrorDegradesToMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("store failure must not fail the embed: %v", err)
	}
	if len(result.Embedding) != 1 {
		t.Fatalf("expected inner result, got %v", result.Embedding)
	}
}

func TestBatchEmbed_MixedHitsAndMisses(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.9},
		TotalTokens: 5,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cachedKey := ce.cacheKey("cached")
	cached := vectorToCacheBytes([]float32{0.5})
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key == cachedKey {
			return cached, nil
		}
		return nil, db.ErrKeyNotFound
	}

	result, err := ce.BatchEmbed(ctx, []string{"cached", "fresh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(result.Embeddings))
	}
	if result.Embeddings[0][0] != 0.5 {
		t.Errorf("position 0 should come from cache, got %v", result.Embeddings[0])
	}
	if result.Embeddings[1][0] != 0.9 {
		t.Errorf("position 1 should come from provider, got %v", result.Embeddings[1])
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected one batch call for misses, got %d", inner.batchCalls)
	}
}

func TestBatchEmbed_AllHits(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.5})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.BatchEmbed(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 0 {
		t.Errorf("provider should not be called, got %d calls", inner.batchCalls)
	}
	if result.TotalTokens != 0 {
		t.Errorf("expected zero tokens on all-hit batch, got %d", result.TotalTokens)
	}
}

func TestBytesToVector_Invalid(t *testing.T) {
	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated data")
	}
}
