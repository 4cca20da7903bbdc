package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/domain"
	"github.com/shoplite/storeassist/internal/metrics"
)

// generation request defaults mirroring the backing inference API.
const (
	generatorAttempts = 3
	generatorBackoff  = 1200 * time.Millisecond
	generatorTopP     = 0.9
)

// Generator produces answer text via the OpenAI-compatible chat-completions API.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// GeneratorConfig holds the generation backend settings.
type GeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewGenerator creates a chat-completions generation backend.
// Returns nil when no API key is configured; callers treat a nil backend
// as permanently unavailable.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	if cfg.APIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Generate runs a chat completion with up to three attempts and linear
// backoff. Exhausted retries return ErrGenerationUnavailable; callers degrade
// to a fallback answer rather than failing the request.
func (g *Generator) Generate(
	ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: strings.TrimSpace(systemPrompt)},
			{Role: openai.ChatMessageRoleUser, Content: strings.TrimSpace(userPrompt)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        generatorTopP,
	}

	for attempt := 1; attempt <= generatorAttempts; attempt++ {
		start := time.Now()
		resp, err := g.client.CreateChatCompletion(ctx, req)
		duration := time.Since(start)

		if err == nil && len(resp.Choices) > 0 {
			text := strings.TrimSpace(resp.Choices[0].Message.Content)
			if text != "" {
				metrics.GenerationRequestsTotal.WithLabelValues(g.model, "success").Inc()
				metrics.GenerationRequestDuration.WithLabelValues(g.model).Observe(duration.Seconds())
				return text, nil
			}
		}

		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		if err != nil {
			g.logger.Warn("Generation attempt failed",
				zap.Int("attempt", attempt), zap.Error(err))
		} else {
			g.logger.Warn("Generation attempt returned no text", zap.Int("attempt", attempt))
		}

		if attempt == generatorAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(generatorBackoff * time.Duration(attempt)):
		}
	}

	return "", domain.ErrGenerationUnavailable
}

// HealthCheck verifies API availability via ListModels.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return err
	}
	return nil
}
