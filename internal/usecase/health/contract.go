package health

import "context"

// CachePinger checks cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// KnowledgeCounter reports the size of the active knowledge base.
type KnowledgeCounter interface {
	DocumentCount() int
}
