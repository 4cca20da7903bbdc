package answer

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/domain/language"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
	logpkg "github.com/shoplite/storeassist/internal/logger"
)

// ErrEmptyQuestion is returned when a chat request carries no question.
var ErrEmptyQuestion = errors.New("question required")

// Request defaults and the hard cap on generation length.
const (
	DefaultMaxTokens      = 256
	DefaultMaxTokensLimit = 640
	maxSources            = 3
)

// Result is a grounded chat reply.
type Result struct {
	Answer     string
	Sources    []string
	Confidence domret.Confidence
	Expanded   bool
}

// Service runs the retrieve-then-generate pipeline.
type Service struct {
	retriever      Retriever
	generator      Generator
	maxTokensLimit int
	logger         *zap.Logger
}

// NewService creates the answer service. generator may be nil; replies then
// fall back to canned text. maxTokensLimit <= 0 uses the default cap.
func NewService(retriever Retriever, generator Generator, maxTokensLimit int, logger *zap.Logger) *Service {
	if maxTokensLimit <= 0 {
		maxTokensLimit = DefaultMaxTokensLimit
	}
	return &Service{
		retriever:      retriever,
		generator:      generator,
		maxTokensLimit: maxTokensLimit,
		logger:         logger,
	}
}

// Chat answers a user question grounded in the knowledge base. Retrieval
// misses and generation failures degrade to canned replies; the only error
// is an empty question.
func (s *Service) Chat(
	ctx context.Context, question string, topK, maxTokens int, temperature float32,
) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, ErrEmptyQuestion
	}
	lang := language.Detect(question)

	out := s.retriever.Retrieve(ctx, question, topK)
	if out.Empty() {
		if err := out.Err(); err != nil {
			logpkg.FromContext(ctx, s.logger).Warn("Retrieval degraded to canned reply", zap.Error(err))
		}
		return Result{
			Answer:     insufficientReply(lang),
			Sources:    []string{},
			Confidence: domret.ConfidenceLow,
		}, nil
	}

	hits := out.Hits()
	prompt := buildPrompt(hits, question, lang)

	sources := make([]string, 0, maxSources)
	for _, h := range hits {
		if len(sources) == maxSources {
			break
		}
		sources = append(sources, h.Document().ID())
	}

	return Result{
		Answer:     s.generate(ctx, systemPrompt(lang), prompt, maxTokens, temperature),
		Sources:    sources,
		Confidence: out.Confidence(),
		Expanded:   out.Expanded(),
	}, nil
}

// GenerateText runs free-form generation without retrieval, using the
// assistant persona for the prompt's detected language.
func (s *Service) GenerateText(
	ctx context.Context, prompt string, maxTokens int, temperature float32,
) string {
	return s.generate(ctx, systemPrompt(language.Detect(prompt)), prompt, maxTokens, temperature)
}

func (s *Service) generate(
	ctx context.Context, system, prompt string, maxTokens int, temperature float32,
) string {
	if s.generator == nil {
		return unavailableReply
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if maxTokens > s.maxTokensLimit {
		maxTokens = s.maxTokensLimit
	}
	text, err := s.generator.Generate(ctx, system, prompt, maxTokens, temperature)
	if err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Generation failed", zap.Error(err))
		return unavailableReply
	}
	if text == "" {
		return unavailableReply
	}
	return text
}
