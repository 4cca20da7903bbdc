// Package knowledge holds the static document collection used as retrieval
// targets. The store is built once at startup and read-only thereafter, so
// concurrent queries share it without locking.
package knowledge

import (
	"fmt"

	"github.com/shoplite/storeassist/internal/domain"
	"github.com/shoplite/storeassist/internal/domain/document"
)

// Store is an ordered, immutable document collection. Positions returned by
// the vector index map back to documents through this order.
type Store struct {
	docs []document.Document
	byID map[string]int
}

// NewStore validates document ids and builds the store.
// Fails on an empty collection or duplicate ids.
func NewStore(docs []document.Document) (*Store, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyKnowledgeBase
	}

	byID := make(map[string]int, len(docs))
	for i, d := range docs {
		if prev, ok := byID[d.ID()]; ok {
			return nil, fmt.Errorf("documents %d and %d share id %q: %w",
				prev, i, d.ID(), domain.ErrDuplicateDocumentID)
		}
		byID[d.ID()] = i
	}

	return &Store{docs: docs, byID: byID}, nil
}

// Len returns the number of documents.
func (s *Store) Len() int { return len(s.docs) }

// At returns the document at the given insertion position.
func (s *Store) At(pos int) (document.Document, bool) {
	if pos < 0 || pos >= len(s.docs) {
		return document.Document{}, false
	}
	return s.docs[pos], true
}

// ByID returns the document with the given id.
func (s *Store) ByID(id string) (document.Document, bool) {
	pos, ok := s.byID[id]
	if !ok {
		return document.Document{}, false
	}
	return s.docs[pos], true
}

// PositionOf returns the insertion position of the document with the given id.
func (s *Store) PositionOf(id string) (int, bool) {
	pos, ok := s.byID[id]
	return pos, ok
}

// Documents returns the documents in insertion order. Callers must not mutate.
func (s *Store) Documents() []document.Document { return s.docs }
