// Package chi exposes the storeassist HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/domain"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
	answeruc "github.com/shoplite/storeassist/internal/usecase/answer"
	healthuc "github.com/shoplite/storeassist/internal/usecase/health"
)

// Request body defaults, mirroring the public API contract.
const (
	defaultTopK        = 5
	defaultMaxTokens   = 256
	defaultTemperature = 0.2
)

// Reindexer rebuilds the active knowledge snapshot.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Server implements the HTTP API handlers.
type Server struct {
	answers     *answeruc.Service
	reindexer   Reindexer
	health      *healthuc.Service
	serviceName string
	model       string
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	answers *answeruc.Service,
	reindexer Reindexer,
	health *healthuc.Service,
	serviceName, model string,
	logger *zap.Logger,
) *Server {
	return &Server{
		answers:     answers,
		reindexer:   reindexer,
		health:      health,
		serviceName: serviceName,
		model:       model,
		logger:      logger,
	}
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/chat", s.Chat)
	r.Post("/generate", s.Generate)
	r.Post("/reindex", s.Reindex)
}

type chatRequest struct {
	Question    string   `json:"question"`
	TopK        int      `json:"top_k"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float32 `json:"temperature"`
}

type chatResponse struct {
	Answer     string            `json:"answer"`
	Sources    []string          `json:"sources"`
	Confidence domret.Confidence `json:"confidence"`
	Expanded   bool              `json:"expanded"`
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	temperature := float32(defaultTemperature)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	res, err := s.answers.Chat(r.Context(), req.Question, req.TopK, req.MaxTokens, temperature)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:     res.Answer,
		Sources:    res.Sources,
		Confidence: res.Confidence,
		Expanded:   res.Expanded,
	})
}

type generateRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float32 `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate handles POST /generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "prompt is required")
		return
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	temperature := float32(defaultTemperature)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	text := s.answers.GenerateText(r.Context(), req.Prompt, req.MaxTokens, temperature)
	writeJSON(w, http.StatusOK, generateResponse{Text: text})
}

type reindexResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
}

// Reindex handles POST /reindex.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	count, err := s.reindexer.Reindex(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reindexResponse{Status: "ok", Documents: count})
}

type healthResponse struct {
	Service       string                              `json:"service"`
	Status        healthuc.Status                     `json:"status"`
	Model         string                              `json:"model"`
	KnowledgeDocs int                                 `json:"kb"`
	Checks        map[string]healthuc.CheckResult     `json:"checks,omitempty"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Service:       s.serviceName,
		Status:        report.Status,
		Model:         s.model,
		KnowledgeDocs: report.KnowledgeDocs,
		Checks:        report.Checks,
	})
}

type rootResponse struct {
	Service   string   `json:"service"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Service:   s.serviceName,
		Status:    "ok",
		Endpoints: []string{"/health", "/metrics", "/chat", "/generate", "/reindex"},
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeProviderError    errorCode = "embedding_provider_error"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		answeruc.ErrEmptyQuestion,
		domain.ErrEmptyKnowledgeBase,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	switch {
	case errors.Is(err, answeruc.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, codeProviderError, msg)
	case errors.Is(err, domain.ErrVectorDimMismatch), errors.Is(err, domain.ErrEmptyKnowledgeBase):
		writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
