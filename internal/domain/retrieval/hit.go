// Package retrieval holds the value objects produced by the retrieval engine:
// scored knowledge-base hits, confidence labels, and the call outcome.
package retrieval

import "github.com/shoplite/storeassist/internal/domain/document"

// Hit is a single scored knowledge-base match. Hits are ephemeral and
// produced per query; they are never persisted.
type Hit struct {
	doc   document.Document
	score float64
}

// NewHit creates a hit.
func NewHit(doc document.Document, score float64) Hit {
	return Hit{doc: doc, score: score}
}

// Document returns the matched document.
func (h Hit) Document() document.Document { return h.doc }

// Score returns the relevance score. Its range depends on the scoring
// strategy: cosine similarity in [-1, 1] for vectors, a non-negative
// overlap count for keyword matching.
func (h Hit) Score() float64 { return h.score }
