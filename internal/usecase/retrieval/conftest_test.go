package retrieval

import (
	"context"
	"testing"

	"github.com/shoplite/storeassist/internal/domain"
	"github.com/shoplite/storeassist/internal/domain/document"
	"github.com/shoplite/storeassist/internal/domain/language"
	"github.com/shoplite/storeassist/internal/index"
	"github.com/shoplite/storeassist/internal/knowledge"
)

// mockEmbedder returns canned vectors per exact input text. Unknown texts get
// a zero vector, which normalizes to zero similarity against every document.
type mockEmbedder struct {
	dim     int
	vectors map[string][]float32
	errFor  map[string]error
	err     error
	calls   []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls = append(m.calls, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	if err, ok := m.errFor[text]; ok {
		return domain.EmbeddingResult{}, err
	}
	if v, ok := m.vectors[text]; ok {
		return domain.EmbeddingResult{Embedding: v}, nil
	}
	return domain.EmbeddingResult{Embedding: make([]float32, m.dim)}, nil
}

func mustDoc(t *testing.T, id, title, en string) document.Document {
	t.Helper()
	doc, err := document.New(id, title, map[language.Tag]string{language.English: en})
	if err != nil {
		t.Fatalf("New(%q): %v", id, err)
	}
	return doc
}

// newSnapshot builds a store and flat index from parallel docs and vectors.
func newSnapshot(t *testing.T, docs []document.Document, vectors [][]float32) *Snapshot {
	t.Helper()
	store, err := knowledge.NewStore(docs)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		normalized[i] = index.Normalize(v)
	}
	idx, err := index.Build(normalized, len(vectors[0]))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return &Snapshot{Store: store, Index: idx}
}

// storeSnapshot builds a snapshot with one-hot vectors, one axis per document.
// Each document is its own nearest neighbor with similarity 1.
func storeSnapshot(t *testing.T, docs ...document.Document) (*Snapshot, [][]float32) {
	t.Helper()
	vectors := make([][]float32, len(docs))
	for i := range docs {
		v := make([]float32, len(docs))
		v[i] = 1
		vectors[i] = v
	}
	return newSnapshot(t, docs, vectors), vectors
}
