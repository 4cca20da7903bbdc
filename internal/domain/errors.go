package domain

import "errors"

var (
	// ErrEmptyKnowledgeBase signals that no documents were available at startup.
	ErrEmptyKnowledgeBase = errors.New("empty knowledge base")
	// ErrVectorDimMismatch signals a vector dimension mismatch at index build time.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrDuplicateDocumentID signals two knowledge documents sharing an id.
	ErrDuplicateDocumentID = errors.New("duplicate document id")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationUnavailable signals that the generation backend produced no text.
	ErrGenerationUnavailable = errors.New("generation backend unavailable")
	// ErrUnknownStrategy signals an unrecognized scoring strategy name.
	ErrUnknownStrategy = errors.New("unknown scoring strategy")
)
