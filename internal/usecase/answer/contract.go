// Package answer orchestrates the chat pipeline: retrieve supporting
// documents, build a grounded prompt, and generate the final reply.
package answer

import (
	"context"

	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
)

// Retriever produces a retrieval outcome for a user question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) domret.Outcome
}

// Generator produces model text from a system and user prompt. A nil
// Generator is a valid deployment mode; the service then degrades to its
// fallback reply.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}
